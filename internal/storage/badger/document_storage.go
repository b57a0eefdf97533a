package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// DocumentStorage implements interfaces.DocumentStorage for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

// SaveDocument inserts or replaces a merged document
func (s *DocumentStorage) SaveDocument(ctx context.Context, doc *models.MergedDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument retrieves a merged document, including its PDF bytes
func (s *DocumentStorage) GetDocument(ctx context.Context, id string) (*models.MergedDocument, error) {
	var doc models.MergedDocument
	err := s.db.Store().Get(id, &doc)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns documents newest first. limit <= 0 returns all.
func (s *DocumentStorage) ListDocuments(ctx context.Context, limit int) ([]models.MergedDocument, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var docs []models.MergedDocument
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a merged document by ID
func (s *DocumentStorage) DeleteDocument(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.MergedDocument{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DeleteDocumentsBefore removes documents created before cutoff and returns
// how many were removed
func (s *DocumentStorage) DeleteDocumentsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("CreatedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.MergedDocument{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired documents: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.MergedDocument{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete expired documents: %w", err)
	}
	return int(count), nil
}
