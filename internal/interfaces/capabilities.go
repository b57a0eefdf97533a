package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// Capability names an external AI operation.
type Capability string

const (
	CapabilityHandwriting Capability = "handwriting_recognition"
	CapabilityPDFText     Capability = "pdf_text_extraction"
	CapabilityMerge       Capability = "note_merge"
	CapabilityVisual      Capability = "visual_generation"
)

// ErrorKind classifies a capability failure.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindInvalidCredentials
	ErrorKindRateLimited
	ErrorKindEmptyResponse
	ErrorKindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidCredentials:
		return "invalid_credentials"
	case ErrorKindRateLimited:
		return "rate_limited"
	case ErrorKindEmptyResponse:
		return "empty_response"
	case ErrorKindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// CapabilityError wraps a failure from an external capability with a
// structured kind. Error returns the provider's raw message.
type CapabilityError struct {
	Capability Capability
	Kind       ErrorKind
	Err        error
}

func (e *CapabilityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed (%s)", e.Capability, e.Kind)
	}
	return e.Err.Error()
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// ErrorKindOf returns the kind of the first CapabilityError in err's chain.
func ErrorKindOf(err error) ErrorKind {
	var capErr *CapabilityError
	if errors.As(err, &capErr) {
		return capErr.Kind
	}
	return ErrorKindUnknown
}

// HandwritingRecognizer transcribes an image of handwritten notes.
type HandwritingRecognizer interface {
	RecognizeHandwriting(ctx context.Context, image []byte, mimeType string) (string, error)
}

// PDFTextExtractor extracts the text of a PDF document.
type PDFTextExtractor interface {
	ExtractPDFText(ctx context.Context, pdf []byte) (string, error)
}

// NoteMerger combines several note texts into one coherent document.
type NoteMerger interface {
	MergeNotes(ctx context.Context, notes []string) (string, error)
}

// VisualGenerator produces an illustration for the merged notes.
// It returns the raw image bytes and their media type.
type VisualGenerator interface {
	GenerateVisual(ctx context.Context, notes string) ([]byte, string, error)
}

// ServiceStatus reports whether the AI service has credentials.
type ServiceStatus interface {
	Configured() bool
}
