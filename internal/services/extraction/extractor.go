// Package extraction turns each note into text. It never fails: any problem
// with a single note becomes a placeholder naming that note.
package extraction

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// RecognitionPlaceholder is the text used for a handwritten note that could not be read.
func RecognitionPlaceholder(name string) string {
	return fmt.Sprintf("[Could not recognize: %s]", name)
}

// PDFPlaceholder is the text used for a PDF note that could not be read.
func PDFPlaceholder(name string) string {
	return fmt.Sprintf("[Could not extract text from PDF: %s]", name)
}

// UnsupportedPlaceholder is the text used for a note of an unknown kind.
func UnsupportedPlaceholder(name string) string {
	return fmt.Sprintf("[Unsupported note type: %s]", name)
}

// Extractor dispatches each note to the capability for its kind.
type Extractor struct {
	recognizer interfaces.HandwritingRecognizer
	pdf        interfaces.PDFTextExtractor
	logger     arbor.ILogger
}

// NewExtractor creates a note extractor
func NewExtractor(recognizer interfaces.HandwritingRecognizer, pdf interfaces.PDFTextExtractor, logger arbor.ILogger) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		pdf:        pdf,
		logger:     logger,
	}
}

// Extract returns the note's text. Typed notes pass through unchanged;
// handwritten and pdf notes are decoded from their data URI and sent to the
// matching capability. Failures are logged and replaced by a placeholder.
func (e *Extractor) Extract(ctx context.Context, note models.Note) models.ExtractionResult {
	switch note.Kind {
	case models.NoteKindTyped:
		return models.ExtractionResult{NoteID: note.ID, Text: note.Content}

	case models.NoteKindHandwritten:
		text, err := e.recognize(ctx, note)
		if err != nil {
			e.logFailure(note, err)
			return placeholder(note, RecognitionPlaceholder(note.Name))
		}
		return models.ExtractionResult{NoteID: note.ID, Text: text}

	case models.NoteKindPDF:
		text, err := e.extractPDF(ctx, note)
		if err != nil {
			e.logFailure(note, err)
			return placeholder(note, PDFPlaceholder(note.Name))
		}
		return models.ExtractionResult{NoteID: note.ID, Text: text}

	default:
		e.logFailure(note, fmt.Errorf("unsupported note kind %q", note.Kind))
		return placeholder(note, UnsupportedPlaceholder(note.Name))
	}
}

func (e *Extractor) recognize(ctx context.Context, note models.Note) (string, error) {
	data, mimeType, err := common.ParseDataURI(note.Content)
	if err != nil {
		return "", err
	}
	return e.recognizer.RecognizeHandwriting(ctx, data, mimeType)
}

func (e *Extractor) extractPDF(ctx context.Context, note models.Note) (string, error) {
	data, _, err := common.ParseDataURI(note.Content)
	if err != nil {
		return "", err
	}
	return e.pdf.ExtractPDFText(ctx, data)
}

func (e *Extractor) logFailure(note models.Note, err error) {
	e.logger.Warn().
		Str("note_id", note.ID).
		Str("note_name", note.Name).
		Str("kind", string(note.Kind)).
		Str("error_kind", interfaces.ErrorKindOf(err).String()).
		Err(err).
		Msg("Note extraction failed, using placeholder")
}

func placeholder(note models.Note, text string) models.ExtractionResult {
	return models.ExtractionResult{NoteID: note.ID, Text: text, Placeholder: true}
}
