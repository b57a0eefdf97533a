package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// NoteStorage implements interfaces.NoteStorage for Badger.
// Notes keep their insertion order through Seq.
type NoteStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
	mu     sync.Mutex // serializes Seq assignment
}

// NewNoteStorage creates a new NoteStorage instance
func NewNoteStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NoteStorage {
	return &NoteStorage{
		db:     db,
		logger: logger,
	}
}

// SaveNote inserts or replaces a note. A note without Seq is appended after
// every stored note.
func (s *NoteStorage) SaveNote(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		return fmt.Errorf("note ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if note.Seq == 0 {
		seq, err := s.nextSeq()
		if err != nil {
			return err
		}
		note.Seq = seq
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(note.ID, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (s *NoteStorage) nextSeq() (int, error) {
	var last []models.Note
	err := s.db.Store().Find(&last, badgerhold.Where("ID").Ne("").SortBy("Seq").Reverse().Limit(1))
	if err != nil {
		return 0, fmt.Errorf("failed to read note sequence: %w", err)
	}
	if len(last) == 0 {
		return 1, nil
	}
	return last[0].Seq + 1, nil
}

// GetNote retrieves a note by ID
func (s *NoteStorage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	err := s.db.Store().Get(id, &note)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

// ListNotes returns notes in insertion order
func (s *NoteStorage) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := s.db.Store().Find(&notes, badgerhold.Where("ID").Ne("").SortBy("Seq")); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote removes a note by ID
func (s *NoteStorage) DeleteNote(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.Note{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrNoteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// ClearNotes removes every note and returns how many were removed
func (s *NoteStorage) ClearNotes(ctx context.Context) (int, error) {
	count, err := s.CountNotes(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.db.Store().DeleteMatching(&models.Note{}, nil); err != nil {
		return 0, fmt.Errorf("failed to clear notes: %w", err)
	}
	s.logger.Debug().Int("count", count).Msg("Cleared notes")
	return count, nil
}

// CountNotes returns the number of stored notes
func (s *NoteStorage) CountNotes(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Note{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return int(count), nil
}
