package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/notes"
)

// NoteService defines the methods needed from the notes service
type NoteService interface {
	AddTyped(ctx context.Context, text string) (*models.Note, error)
	AddFile(ctx context.Context, filename string, data []byte) (*models.Note, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Note, error)
	Clear(ctx context.Context) (int, error)
}

// NoteHandler manages the draft note collection
type NoteHandler struct {
	notes         NoteService
	maxUploadSize int64
	logger        arbor.ILogger
}

// NewNoteHandler creates a note handler. maxUploadSize bounds multipart bodies.
func NewNoteHandler(notes NoteService, maxUploadSize int64, logger arbor.ILogger) *NoteHandler {
	return &NoteHandler{
		notes:         notes,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// noteSummary is a note without its content payload
type noteSummary struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Kind   models.NoteKind `json:"type"`
	Length int             `json:"length"`
}

func summarize(n models.Note) noteSummary {
	return noteSummary{ID: n.ID, Name: n.Name, Kind: n.Kind, Length: len(n.Content)}
}

// ListNotesHandler handles GET /api/notes
func (h *NoteHandler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list notes")
		WriteError(w, http.StatusInternalServerError, "Failed to list notes")
		return
	}

	out := make([]noteSummary, len(list))
	for i, n := range list {
		out[i] = summarize(n)
	}
	WriteJSON(w, http.StatusOK, out)
}

// AddNotesHandler handles POST /api/notes. A JSON body {"text": "..."} adds a
// typed note; a multipart body adds every file in the "files" field.
func (h *NoteHandler) AddNotesHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.addFiles(w, r)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.AddTyped(r.Context(), req.Text)
	if err != nil {
		h.writeAddError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, []noteSummary{summarize(*note)})
}

func (h *NoteHandler) addFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		WriteError(w, http.StatusBadRequest, "No files provided")
		return
	}

	added := make([]noteSummary, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read %s", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read %s", fh.Filename))
			return
		}

		note, err := h.notes.AddFile(r.Context(), fh.Filename, data)
		if err != nil {
			h.writeAddError(w, err)
			return
		}
		added = append(added, summarize(*note))
	}

	WriteJSON(w, http.StatusCreated, added)
}

func (h *NoteHandler) writeAddError(w http.ResponseWriter, err error) {
	if errors.Is(err, notes.ErrBlankNote) || errors.Is(err, notes.ErrEmptyFile) {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error().Err(err).Msg("Failed to add note")
	WriteError(w, http.StatusInternalServerError, "Failed to add note")
}

// ClearNotesHandler handles DELETE /api/notes
func (h *NoteHandler) ClearNotesHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := h.notes.Clear(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear notes")
		WriteError(w, http.StatusInternalServerError, "Failed to clear notes")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"removed": removed,
	})
}

// DeleteNoteHandler handles DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := PathParam(r, "/api/notes/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing note ID")
		return
	}

	if err := h.notes.Remove(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNoteNotFound) {
			WriteError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error().Err(err).Str("note_id", id).Msg("Failed to remove note")
		WriteError(w, http.StatusInternalServerError, "Failed to remove note")
		return
	}
	WriteSuccess(w, "Note removed")
}
