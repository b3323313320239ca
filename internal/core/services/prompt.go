package services

import (
	"fmt"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// formatContext renders retrieved chunks with their citations, one
// block per chunk:
//
//	[Source: report.pdf]:
//	chunk text
func formatContext(matches []domain.Match) string {
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = fmt.Sprintf("[Source: %s]:\n%s", m.Chunk.Metadata.Source, m.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// formatHistory renders completed turns as alternating speaker lines.
func formatHistory(turns []domain.ConversationTurn) string {
	blocks := make([]string, len(turns))
	for i, t := range turns {
		blocks[i] = fmt.Sprintf("User: %s\nAssistant: %s", t.User, t.Assistant)
	}
	return strings.Join(blocks, "\n\n")
}

// buildPrompt assembles the grounded prompt: history, excerpts, the
// question and answering instructions. The instructions pin the answer
// to the excerpts; general knowledge is explicitly off limits.
func buildPrompt(query string, matches []domain.Match, turns []domain.ConversationTurn) string {
	history := ""
	if len(turns) > 0 {
		history = "\nPrevious conversation:\n" + formatHistory(turns)
	}

	return fmt.Sprintf(`You are a helpful research assistant. You have access to the following:

1. Previous Conversation History:
%s

2. Relevant Document Excerpts:
%s

Current Question: %s

Instructions:
1. Use the provided document excerpts to answer the question.
2. If the question is about previous conversation, refer to the conversation history.
3. Always cite your sources when applicable using [Source: filename] format.
4. If you don't know or can't find the answer in the provided document excerpts, say so.
5. Keep track of the conversation context when answering follow-up questions.
6. Do not give answer in markdown format.
7. If the question cannot be answered using the provided document excerpts, state that you cannot find the answer in the documents and do not provide an answer from your general knowledge.
8. Your answer must be solely based on the 'Relevant Document Excerpts'. Do not use any external or prior knowledge.

Answer Format:
1. Detailed technical answer with inline citations when applicable

Answer: `, history, formatContext(matches), query)
}

// buildNoContextPrompt is used when retrieval produced nothing: the
// model is told to reply with a fixed onboarding message instead of
// answering from general knowledge.
func buildNoContextPrompt(query string) string {
	return fmt.Sprintf(`You are a helpful AI assistant. The user asked: %q

Since no documents are currently available in the knowledge base, I cannot provide specific information from uploaded documents.

Please respond with: "I don't have access to any documents in the knowledge base at the moment. To get started, add some documents with the ingest command and they will be indexed for retrieval. Once documents are available, I'll be able to answer questions based on their content."

Keep the response exactly as specified, without any additional text or citations.`, query)
}
