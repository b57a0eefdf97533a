package merge

import (
	"strings"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// Reason identifies why a merge run was rejected.
type Reason int

const (
	ReasonNoNotes Reason = iota + 1
	ReasonEmptyBatch
	ReasonTooFewNotes
	ReasonNotConfigured
	ReasonInsufficientContent
	ReasonInvalidCredentials
	ReasonMergeFailed
	ReasonDocumentFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonNoNotes:
		return "no_notes"
	case ReasonEmptyBatch:
		return "empty_batch"
	case ReasonTooFewNotes:
		return "too_few_notes"
	case ReasonNotConfigured:
		return "not_configured"
	case ReasonInsufficientContent:
		return "insufficient_content"
	case ReasonInvalidCredentials:
		return "invalid_credentials"
	case ReasonMergeFailed:
		return "merge_failed"
	case ReasonDocumentFailed:
		return "document_failed"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	MessageSuccess              = "Notes merged successfully!"
	MessageNoNotes              = "No notes provided."
	MessageEmptyBatch           = "Please add at least one note to merge."
	MessageTooFewNotes          = "Please add more than one note to merge."
	MessageNotConfigured        = "The AI service is not configured. Please set an API key."
	MessageInsufficientContent  = "Not enough content to merge after processing. Please check your notes."
	MessageInvalidCredentials   = "The AI service rejected the configured API key. Please check your API key."
	MessageMergeFailedPrefix    = "Failed to merge notes: "
	MessageDocumentFailedPrefix = "Failed to generate document: "
)

// minNotes is the smallest batch, and the fewest non-blank results, that can be merged.
const minNotes = 2

// Rejection is the error returned when a run stops before producing a document.
// Error returns the user-facing message.
type Rejection struct {
	Reason  Reason
	Message string
	Err     error
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(reason Reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}

// CheckBatch applies the structural gates in order: a batch must exist,
// contain notes, and contain more than one note.
func CheckBatch(batch *models.Batch) *Rejection {
	switch {
	case batch == nil:
		return reject(ReasonNoNotes, MessageNoNotes)
	case len(batch.Notes) == 0:
		return reject(ReasonEmptyBatch, MessageEmptyBatch)
	case len(batch.Notes) < minNotes:
		return reject(ReasonTooFewNotes, MessageTooFewNotes)
	}
	return nil
}

// CheckService rejects when the AI service has no credentials.
func CheckService(configured bool) *Rejection {
	if !configured {
		return reject(ReasonNotConfigured, MessageNotConfigured)
	}
	return nil
}

// CountNonBlank counts results whose text is not empty or whitespace.
// Placeholders are non-blank and are counted.
func CountNonBlank(results []models.ExtractionResult) int {
	n := 0
	for _, r := range results {
		if strings.TrimSpace(r.Text) != "" {
			n++
		}
	}
	return n
}

// CheckContent rejects when fewer than two results carry any text.
func CheckContent(results []models.ExtractionResult) *Rejection {
	if CountNonBlank(results) < minNotes {
		return reject(ReasonInsufficientContent, MessageInsufficientContent)
	}
	return nil
}
