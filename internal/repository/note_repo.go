package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hearthside/internal/database"
	"hearthside/internal/models"
)

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *database.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// CreateNote creates a new note
func (r *NoteRepository) CreateNote(ownerID int64, title, body, visibility string) (*models.Note, error) {
	query := "INSERT INTO notes (owner_id, title, body, visibility) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, ownerID, title, body, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return &models.Note{
		ID:         id,
		OwnerID:    ownerID,
		Title:      title,
		Body:       body,
		Visibility: visibility,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// GetNoteByID retrieves a note by id. Returns nil when unknown
func (r *NoteRepository) GetNoteByID(id int64) (*models.Note, error) {
	query := "SELECT id, owner_id, title, body, visibility, created_at, updated_at FROM notes WHERE id = ?"
	note := &models.Note{}
	err := r.db.QueryRow(query, id).Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Body, &note.Visibility,
		&note.CreatedAt, &note.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// GetNotesByOwner retrieves all notes owned by a person
func (r *NoteRepository) GetNotesByOwner(ownerID int64) ([]models.Note, error) {
	query := `
		SELECT id, owner_id, title, body, visibility, created_at, updated_at
		FROM notes WHERE owner_id = ? ORDER BY updated_at DESC
	`
	return r.queryNotes(query, ownerID)
}

// GetPublicNotes retrieves all public notes
func (r *NoteRepository) GetPublicNotes() ([]models.Note, error) {
	query := `
		SELECT id, owner_id, title, body, visibility, created_at, updated_at
		FROM notes WHERE visibility = 'public' ORDER BY updated_at DESC
	`
	return r.queryNotes(query)
}

func (r *NoteRepository) queryNotes(query string, args ...interface{}) ([]models.Note, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID, &note.OwnerID, &note.Title, &note.Body, &note.Visibility,
			&note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// UpdateNote updates a note's content and visibility
func (r *NoteRepository) UpdateNote(id int64, title, body, visibility string) error {
	query := "UPDATE notes SET title = ?, body = ?, visibility = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, title, body, visibility, id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// DeleteNote deletes a note
func (r *NoteRepository) DeleteNote(id int64) error {
	query := "DELETE FROM notes WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
