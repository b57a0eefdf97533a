package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

var (
	// ErrNoteNotFound is returned when a draft note does not exist
	ErrNoteNotFound = errors.New("note not found")
	// ErrDocumentNotFound is returned when a merged document does not exist
	ErrDocumentNotFound = errors.New("document not found")
)

// NoteStorage persists the draft note collection.
type NoteStorage interface {
	SaveNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	// ListNotes returns notes in insertion order
	ListNotes(ctx context.Context) ([]models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ClearNotes(ctx context.Context) (int, error)
	CountNotes(ctx context.Context) (int, error)
}

// DocumentStorage persists merged documents.
type DocumentStorage interface {
	SaveDocument(ctx context.Context, doc *models.MergedDocument) error
	GetDocument(ctx context.Context, id string) (*models.MergedDocument, error)
	// ListDocuments returns documents newest first
	ListDocuments(ctx context.Context, limit int) ([]models.MergedDocument, error)
	DeleteDocument(ctx context.Context, id string) error
	DeleteDocumentsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// StorageManager groups the storage backends.
type StorageManager interface {
	NoteStorage() NoteStorage
	DocumentStorage() DocumentStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
