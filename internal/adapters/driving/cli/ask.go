package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

var askStream bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in the knowledge base",
	Long: `Answer a question using the indexed documents as context.
Cited sources are listed after the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print tokens as they are generated")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := args[0]
	if askStream {
		return streamAnswer(cmd, question)
	}

	answer, err := chatService.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	printSources(cmd, answer.Sources)
	return nil
}

func streamAnswer(cmd *cobra.Command, question string) error {
	var sources []domain.Source

	err := chatService.AnswerStream(cmd.Context(), question, func(ev domain.StreamEvent) error {
		switch ev.Type {
		case domain.EventSources:
			sources = ev.Sources
		case domain.EventToken:
			cmd.Print(ev.Content)
		case domain.EventDone:
			cmd.Println()
		case domain.EventError:
			// The stream call returns the underlying error itself.
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	printSources(cmd, sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.Source) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, s := range sources {
		cmd.Printf("  - %s\n", s.Name)
	}
}
