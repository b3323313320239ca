package domain

// DocType identifies the source format of an ingested document.
type DocType string

// Supported document types.
const (
	DocTypePDF  DocType = "pdf"
	DocTypeDOCX DocType = "docx"
	DocTypeXLSX DocType = "xlsx"
	DocTypeCSV  DocType = "csv"
	DocTypeTXT  DocType = "txt"
)

// IsValid returns true if the document type is recognised.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypePDF, DocTypeDOCX, DocTypeXLSX, DocTypeCSV, DocTypeTXT:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// Document is the transient result of extracting a file.
// It exists only between extraction and indexing; the index stores chunks.
type Document struct {
	// Name is the base file name, used for citations.
	Name string

	// Path is the absolute path of the source file.
	Path string

	// Type is the source format.
	Type DocType

	// Text is the full extracted text.
	Text string

	// Segments are the per-page slices of Text for paginated formats.
	// Empty for formats without page structure.
	Segments []Segment
}

// Segment is a contiguous region of document text belonging to one page.
type Segment struct {
	// Start is the byte offset of this segment within Document.Text.
	Start int

	// Page is the 1-based page number, 0 for unpaginated formats.
	Page int

	// TotalPages is the page count of the source document.
	TotalPages int
}

// ChunkMetadata is attached to every indexed chunk.
// Source, DocType and Path are always present; Page is set only for
// chunks that originate from a paginated format.
type ChunkMetadata struct {
	Source     string  `json:"source"`
	DocType    DocType `json:"doc_type"`
	Path       string  `json:"path"`
	Page       int     `json:"page,omitempty"`
	TotalPages int     `json:"total_pages,omitempty"`
}

// Chunk is a bounded slice of document text, indexed independently.
type Chunk struct {
	// ID is unique within the collection for one ingestion run.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata is this chunk's own copy of the document metadata.
	Metadata ChunkMetadata
}

// Source is a deduplicated citation reference returned with answers.
type Source struct {
	Name string `json:"source"`
	Path string `json:"path"`
}

// FileInfo describes one file in the knowledge-base directory.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}
