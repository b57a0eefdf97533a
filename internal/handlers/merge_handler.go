package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/merge"
)

// Merger runs a batch through the merge pipeline
type Merger interface {
	Merge(ctx context.Context, batch *models.Batch) models.MergeResult
}

// BatchSource snapshots the draft collection
type BatchSource interface {
	Submit(ctx context.Context) (*models.Batch, error)
}

// MergeHandler handles POST /api/merge
type MergeHandler struct {
	merger      Merger
	drafts      BatchSource
	maxBodySize int64
	logger      arbor.ILogger
}

// NewMergeHandler creates a merge handler. maxBodySize bounds the request
// body; zero disables the limit.
func NewMergeHandler(merger Merger, drafts BatchSource, maxBodySize int64, logger arbor.ILogger) *MergeHandler {
	return &MergeHandler{
		merger:      merger,
		drafts:      drafts,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// mergeRequest carries an explicit batch. A missing "notes" field is
// distinct from an empty list.
type mergeRequest struct {
	Notes *[]models.Note `json:"notes"`
}

// MergeHandler merges either the notes in the request body or, when the
// body is empty, the draft collection. The response is always a
// models.MergeResult; its success field reports the outcome.
func (h *MergeHandler) MergeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	batch, err := h.batchFromRequest(r)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Rejected merge request")
		WriteJSON(w, http.StatusOK, models.MergeResult{Message: merge.MessageMergeFailedPrefix + err.Error()})
		return
	}

	result := h.merger.Merge(r.Context(), batch)
	WriteJSON(w, http.StatusOK, result)
}

func (h *MergeHandler) batchFromRequest(r *http.Request) (*models.Batch, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return h.drafts.Submit(r.Context())
	}

	var req mergeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Notes == nil {
		return nil, nil
	}

	for i := range *req.Notes {
		if err := (*req.Notes)[i].Validate(); err != nil {
			return nil, err
		}
	}
	return models.NewBatch(common.NewBatchID(), *req.Notes), nil
}
