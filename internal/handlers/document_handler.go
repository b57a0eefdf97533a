package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

const (
	defaultDocumentLimit = 20
	maxDocumentLimit     = 100
)

// DocumentHandler serves stored merged documents
type DocumentHandler struct {
	documents interfaces.DocumentStorage
	logger    arbor.ILogger
}

// NewDocumentHandler creates a document handler
func NewDocumentHandler(documents interfaces.DocumentStorage, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger,
	}
}

// ListHandler handles GET /api/documents?limit=N, newest first
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	docs, err := h.documents.ListDocuments(r.Context(), GetLimitParam(r, defaultDocumentLimit, maxDocumentLimit))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []models.MergedDocument{}
	}
	WriteJSON(w, http.StatusOK, docs)
}

// DocumentRoutes handles /api/documents/{id} (GET, DELETE) and
// /api/documents/{id}/pdf (GET)
func (h *DocumentHandler) DocumentRoutes(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/documents/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing document ID")
		return
	}

	if strings.HasSuffix(r.URL.Path, "/pdf") {
		h.downloadPDF(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getDocument(w, r, id)
	case http.MethodDelete:
		h.deleteDocument(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DocumentHandler) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, ok := h.lookup(w, r, id)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) downloadPDF(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	doc, ok := h.lookup(w, r, id)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", models.DownloadName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.PDF); err != nil {
		h.logger.Warn().Err(err).Str("document_id", id).Msg("Failed to write PDF")
	}
}

func (h *DocumentHandler) deleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.documents.DeleteDocument(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrDocumentNotFound) {
			WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to delete document")
		WriteError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	WriteSuccess(w, "Document deleted")
}

func (h *DocumentHandler) lookup(w http.ResponseWriter, r *http.Request, id string) (*models.MergedDocument, bool) {
	doc, err := h.documents.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrDocumentNotFound) {
			WriteError(w, http.StatusNotFound, "Document not found")
			return nil, false
		}
		h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to get document")
		WriteError(w, http.StatusInternalServerError, "Failed to get document")
		return nil, false
	}
	return doc, true
}
