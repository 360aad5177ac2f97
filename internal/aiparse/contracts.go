package aiparse

import (
	"context"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/content"
)

// Result keys set by the parse path itself (as opposed to fields extracted
// by the model).
const (
	KeyError         = "error"
	KeyRawContent    = "raw_content"
	KeyParsingStatus = "parsing_status"
	KeyDetectedType  = "detected_document_type"
	KeySuggestedName = "suggested_file_name"
)

// ExtractionResult is the loosely typed mapping recovered from model
// output. Any field may be absent, null, or of unexpected type; accessors
// in result.go never panic on shape surprises.
type ExtractionResult map[string]any

// DocumentParser is the interface the pipeline depends on for the two
// model calls: the narrow classification question and the full extraction.
type DocumentParser interface {
	// DetectDocumentType asks the model which category the document is.
	// Any failure (missing key, transport error, unexpected response)
	// yields CategoryUnknown; detection never aborts an upload.
	DetectDocumentType(ctx context.Context, payload content.Payload, apiKey string) constants.DocumentCategory

	// ParseDocument runs the category-appropriate extraction prompt and
	// returns the recovered result. The result always carries
	// parsing_status and detected_document_type; transport and recovery
	// failures are encoded as a failed-status result, never an error.
	ParseDocument(ctx context.Context, payload content.Payload, apiKey string, categoryHint string) ExtractionResult
}
