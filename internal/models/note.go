package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NoteKind identifies how a note's content must be interpreted.
type NoteKind string

const (
	// NoteKindTyped holds plain text entered directly by a student
	NoteKindTyped NoteKind = "typed"
	// NoteKindHandwritten holds a data URI of a photographed page
	NoteKindHandwritten NoteKind = "handwritten"
	// NoteKindPDF holds a data URI of a PDF document
	NoteKindPDF NoteKind = "pdf"
)

// Valid reports whether k is one of the known note kinds.
func (k NoteKind) Valid() bool {
	switch k {
	case NoteKindTyped, NoteKindHandwritten, NoteKindPDF:
		return true
	}
	return false
}

// Note is a single student contribution.
// Content is plain text for typed notes and a base64 data URI for handwritten
// and pdf notes. Empty content is allowed only for typed notes; it extracts to
// blank text.
type Note struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Kind      NoteKind  `json:"type" validate:"required,oneof=typed handwritten pdf"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Seq       int       `json:"-"`
}

var noteValidator = newNoteValidator()

func newNoteValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateNoteContent, Note{})
	return v
}

// validateNoteContent requires file-backed notes to carry a data URI.
func validateNoteContent(sl validator.StructLevel) {
	n := sl.Current().Interface().(Note)
	if n.Kind != NoteKindHandwritten && n.Kind != NoteKindPDF {
		return
	}
	if err := sl.Validator().Var(n.Content, "datauri"); err != nil {
		sl.ReportError(n.Content, "Content", "Content", "datauri", "")
	}
}

// Validate checks the note's required fields, kind, and that its content
// matches the kind.
func (n *Note) Validate() error {
	if err := noteValidator.Struct(n); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("invalid note %q: %s", n.Name, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Batch is an immutable, ordered snapshot of notes submitted for a merge.
// Positions are significant and are preserved through extraction.
type Batch struct {
	ID          string    `json:"id"`
	Notes       []Note    `json:"notes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewBatch copies notes into a new batch so later changes to the caller's
// slice are not observed by the merge.
func NewBatch(id string, notes []Note) *Batch {
	copied := make([]Note, len(notes))
	copy(copied, notes)
	return &Batch{
		ID:          id,
		Notes:       copied,
		SubmittedAt: time.Now(),
	}
}

// Len returns the number of notes in the batch. A nil batch has no notes.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Notes)
}

// ExtractionResult is the text produced for one note.
// Placeholder is set when the text is a failure marker rather than content.
type ExtractionResult struct {
	NoteID      string `json:"note_id"`
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder"`
}

// Texts returns the text of each result, in order.
func Texts(results []ExtractionResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Text
	}
	return out
}
