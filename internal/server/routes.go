package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	h := s.app

	// API routes - System
	mux.HandleFunc("/api/version", h.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", h.APIHandler.HealthHandler)

	// API routes - Draft notes
	mux.HandleFunc("/api/notes", s.handleNotesRoute)               // GET (list), POST (add), DELETE (clear)
	mux.HandleFunc("/api/notes/", h.NoteHandler.DeleteNoteHandler) // DELETE /{id}

	// API routes - Merge
	mux.HandleFunc("/api/merge", h.MergeHandler.MergeHandler)

	// API routes - Merged documents
	mux.HandleFunc("/api/documents", h.DocumentHandler.ListHandler)
	mux.HandleFunc("/api/documents/", h.DocumentHandler.DocumentRoutes) // GET/DELETE /{id}, GET /{id}/pdf

	// API routes - Stored keys
	mux.HandleFunc("/api/kv", h.KVHandler.ListKVHandler)
	mux.HandleFunc("/api/kv/", s.handleKVRoutes) // PUT/DELETE /{key}

	mux.HandleFunc("/", h.APIHandler.NotFoundHandler)

	return mux
}

func (s *Server) handleNotesRoute(w http.ResponseWriter, r *http.Request) {
	h := s.app.NoteHandler
	RouteCRUD(w, r, h.ListNotesHandler, h.AddNotesHandler, nil, h.ClearNotesHandler)
}

func (s *Server) handleKVRoutes(w http.ResponseWriter, r *http.Request) {
	h := s.app.KVHandler
	RouteCRUD(w, r, nil, nil, h.PutKVHandler, h.DeleteKVHandler)
}
