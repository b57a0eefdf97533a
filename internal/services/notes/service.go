// Package notes manages the draft collection of notes a class builds up
// before submitting it for a merge.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

var (
	// ErrBlankNote is returned when typed text is empty or whitespace
	ErrBlankNote = errors.New("note text is blank")
	// ErrEmptyFile is returned when an uploaded file has no bytes
	ErrEmptyFile = errors.New("file is empty")
)

// Service provides the draft note collection
type Service struct {
	storage interfaces.NoteStorage
	logger  arbor.ILogger
}

// NewService creates a new notes service
func NewService(storage interfaces.NoteStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// AddTyped appends a typed note named "Typed Note <n>", where n counts the
// typed notes already in the collection.
func (s *Service) AddTyped(ctx context.Context, text string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankNote
	}

	existing, err := s.storage.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	typed := 0
	for _, n := range existing {
		if n.Kind == models.NoteKindTyped {
			typed++
		}
	}

	note := &models.Note{
		ID:        common.NewNoteID(),
		Name:      fmt.Sprintf("Typed Note %d", typed+1),
		Kind:      models.NoteKindTyped,
		Content:   text,
		CreatedAt: time.Now(),
	}
	return s.save(ctx, note)
}

// AddFile appends an uploaded file. Images become handwritten notes and
// anything else is treated as a PDF.
func (s *Service) AddFile(ctx context.Context, filename string, data []byte) (*models.Note, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyFile)
	}

	mtype := mimetype.Detect(data)
	kind := models.NoteKindPDF
	if strings.HasPrefix(mtype.String(), "image/") {
		kind = models.NoteKindHandwritten
	}

	name := strings.TrimSpace(filename)
	if name == "" {
		name = "Untitled " + string(kind)
	}

	note := &models.Note{
		ID:        common.NewNoteID(),
		Name:      name,
		Kind:      kind,
		Content:   common.EncodeDataURI(mtype.String(), data),
		CreatedAt: time.Now(),
	}
	return s.save(ctx, note)
}

func (s *Service) save(ctx context.Context, note *models.Note) (*models.Note, error) {
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.SaveNote(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("name", note.Name).Msg("Failed to save note")
		return nil, err
	}

	s.logger.Debug().
		Str("note_id", note.ID).
		Str("name", note.Name).
		Str("kind", string(note.Kind)).
		Msg("Added note")
	return note, nil
}

// Remove deletes a note by ID
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.storage.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Str("note_id", id).Msg("Removed note")
	return nil
}

// List returns the collection in the order notes were added
func (s *Service) List(ctx context.Context) ([]models.Note, error) {
	return s.storage.ListNotes(ctx)
}

// Clear empties the collection and returns how many notes were removed
func (s *Service) Clear(ctx context.Context) (int, error) {
	count, err := s.storage.ClearNotes(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("count", count).Msg("Cleared note collection")
	return count, nil
}

// Submit snapshots the collection as a batch. Later changes to the
// collection do not affect the returned batch.
func (s *Service) Submit(ctx context.Context) (*models.Batch, error) {
	notes, err := s.storage.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewBatch(common.NewBatchID(), notes), nil
}
