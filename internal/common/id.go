package common

import (
	"github.com/google/uuid"
)

// NewNoteID generates a unique note ID with the "note_" prefix
func NewNoteID() string {
	return "note_" + uuid.New().String()
}

// NewDocumentID generates a unique merged document ID with the "doc_" prefix
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewBatchID generates a unique batch ID with the "batch_" prefix
func NewBatchID() string {
	return "batch_" + uuid.New().String()
}
