package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// FromFile reads a local file as a note. Images become handwritten notes,
// PDFs are kept as PDFs and text files become typed notes.
func FromFile(path string) (models.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return models.Note{}, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	note := models.Note{
		ID:        common.NewNoteID(),
		Name:      filepath.Base(path),
		CreatedAt: time.Now(),
	}

	mtype := mimetype.Detect(data)
	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		note.Kind = models.NoteKindHandwritten
		note.Content = common.EncodeDataURI(mtype.String(), data)
	case mtype.Is("application/pdf"):
		note.Kind = models.NoteKindPDF
		note.Content = common.EncodeDataURI(mtype.String(), data)
	case strings.HasPrefix(mtype.String(), "text/"):
		note.Kind = models.NoteKindTyped
		note.Content = string(data)
	default:
		return models.Note{}, fmt.Errorf("%s: unsupported file type %s", path, mtype.String())
	}

	return note, nil
}

// Assemble builds notes in argument order: typed texts first, then files.
// Typed texts are named "Typed Note <n>".
func Assemble(texts []string, paths []string) ([]models.Note, error) {
	result := make([]models.Note, 0, len(texts)+len(paths))

	for i, text := range texts {
		result = append(result, models.Note{
			ID:        common.NewNoteID(),
			Name:      fmt.Sprintf("Typed Note %d", i+1),
			Kind:      models.NoteKindTyped,
			Content:   text,
			CreatedAt: time.Now(),
		})
	}

	for _, path := range paths {
		note, err := FromFile(path)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}

	return result, nil
}
