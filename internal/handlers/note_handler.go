package handlers

import (
	"encoding/json"
	"net/http"

	"hearthside/internal/service"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

type noteRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Visibility string `json:"visibility"`
}

// CreateNote creates a note for the authenticated user
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	note, err := h.noteService.CreateNote(user.ID, req.Title, req.Body, req.Visibility)
	if err != nil {
		respondServiceError(w, "Failed to create note", err)
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// GetNote returns a single note, subject to visibility rules
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	noteID, err := parseID(r.PathValue("noteID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note id", "", err)
		return
	}

	note, err := h.noteService.GetNote(user.ID, noteID)
	if err != nil {
		respondServiceError(w, "Failed to get note", err)
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// GetOwnNotes returns the authenticated user's notes
func (h *NoteHandler) GetOwnNotes(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	notes, err := h.noteService.GetOwnNotes(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to get notes", err)
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// GetNotesOf returns another person's notes the viewer may see
func (h *NoteHandler) GetNotesOf(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	notes, err := h.noteService.GetNotesOf(user.ID, personID)
	if err != nil {
		respondServiceError(w, "Failed to get notes", err)
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// GetPublicNotes returns every public note
func (h *NoteHandler) GetPublicNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.GetPublicNotes()
	if err != nil {
		respondServiceError(w, "Failed to get notes", err)
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// UpdateNote updates one of the authenticated user's notes
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	noteID, err := parseID(r.PathValue("noteID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note id", "", err)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	note, err := h.noteService.UpdateNote(user.ID, noteID, req.Title, req.Body, req.Visibility)
	if err != nil {
		respondServiceError(w, "Failed to update note", err)
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// DeleteNote deletes one of the authenticated user's notes
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	noteID, err := parseID(r.PathValue("noteID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note id", "", err)
		return
	}

	if err := h.noteService.DeleteNote(user.ID, noteID); err != nil {
		respondServiceError(w, "Failed to delete note", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
