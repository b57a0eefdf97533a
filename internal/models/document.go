package models

import "time"

// MergedDocument is a stored merge outcome.
type MergedDocument struct {
	ID               string    `json:"id"`
	BatchID          string    `json:"batch_id"`
	Text             string    `json:"text"`
	PDF              []byte    `json:"-"`
	PageCount        int       `json:"page_count"`
	NoteCount        int       `json:"note_count"`
	PlaceholderCount int       `json:"placeholder_count"`
	HasImage         bool      `json:"has_image"`
	CreatedAt        time.Time `json:"created_at"`
}

// DownloadName is the filename offered for merged PDFs.
const DownloadName = "classsync-merged-notes.pdf"

// MergeResult is the outcome returned to callers of a merge.
// Data carries the PDF as a data URI on success.
type MergeResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       string `json:"data,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
}

