package service

import (
	"fmt"

	"hearthside/internal/models"
	"hearthside/internal/repository"
	"hearthside/internal/validation"
)

// NoteService handles note business logic
type NoteService struct {
	noteRepo *repository.NoteRepository
	graph    *GraphService
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo *repository.NoteRepository, graph *GraphService) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		graph:    graph,
	}
}

// CreateNote creates a note for its owner
func (s *NoteService) CreateNote(ownerID int64, title, body, visibility string) (*models.Note, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateVisibility(visibility); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.CreateNote(ownerID, title, body, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// GetNote retrieves a note the viewer is allowed to see
func (s *NoteService) GetNote(viewerID, noteID int64) (*models.Note, error) {
	note, err := s.noteRepo.GetNoteByID(noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	visible, err := visibleTo(s.graph, note.Visibility, note.OwnerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check visibility: %w", err)
	}
	if !visible {
		// Invisible content is indistinguishable from absent content
		return nil, ErrNotFound
	}

	return note, nil
}

// GetOwnNotes retrieves all of a person's own notes
func (s *NoteService) GetOwnNotes(ownerID int64) ([]models.Note, error) {
	notes, err := s.noteRepo.GetNotesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	return notes, nil
}

// GetNotesOf retrieves another person's notes, filtered to what the
// viewer may see
func (s *NoteService) GetNotesOf(viewerID, ownerID int64) ([]models.Note, error) {
	notes, err := s.noteRepo.GetNotesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}

	visible := make([]models.Note, 0, len(notes))
	for _, note := range notes {
		ok, err := visibleTo(s.graph, note.Visibility, note.OwnerID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check visibility: %w", err)
		}
		if ok {
			visible = append(visible, note)
		}
	}
	return visible, nil
}

// GetPublicNotes retrieves all public notes
func (s *NoteService) GetPublicNotes() ([]models.Note, error) {
	notes, err := s.noteRepo.GetPublicNotes()
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	return notes, nil
}

// UpdateNote updates a note; only the owner may
func (s *NoteService) UpdateNote(ownerID, noteID int64, title, body, visibility string) (*models.Note, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateVisibility(visibility); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetNoteByID(noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}
	if note.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if err := s.noteRepo.UpdateNote(noteID, title, body, visibility); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	note.Title = title
	note.Body = body
	note.Visibility = visibility
	return note, nil
}

// DeleteNote deletes a note; only the owner may
func (s *NoteService) DeleteNote(ownerID, noteID int64) error {
	note, err := s.noteRepo.GetNoteByID(noteID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return ErrNotFound
	}
	if note.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.noteRepo.DeleteNote(noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
