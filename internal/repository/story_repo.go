package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hearthside/internal/database"
	"hearthside/internal/models"
)

// StoryRepository handles database operations for dice-game stories
type StoryRepository struct {
	db *database.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *database.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// CreateStory creates a new story with the dice roll it was written against
func (r *StoryRepository) CreateStory(ownerID int64, title, body, diceJSON, visibility string) (*models.Story, error) {
	query := "INSERT INTO stories (owner_id, title, body, dice, visibility) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, ownerID, title, body, diceJSON, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return &models.Story{
		ID:         id,
		OwnerID:    ownerID,
		Title:      title,
		Body:       body,
		Dice:       diceJSON,
		Visibility: visibility,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// GetStoryByID retrieves a story by id. Returns nil when unknown
func (r *StoryRepository) GetStoryByID(id int64) (*models.Story, error) {
	query := "SELECT id, owner_id, title, body, dice, visibility, created_at, updated_at FROM stories WHERE id = ?"
	story := &models.Story{}
	err := r.db.QueryRow(query, id).Scan(
		&story.ID, &story.OwnerID, &story.Title, &story.Body, &story.Dice,
		&story.Visibility, &story.CreatedAt, &story.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return story, nil
}

// GetStoriesByOwner retrieves all stories owned by a person
func (r *StoryRepository) GetStoriesByOwner(ownerID int64) ([]models.Story, error) {
	query := `
		SELECT id, owner_id, title, body, dice, visibility, created_at, updated_at
		FROM stories WHERE owner_id = ? ORDER BY updated_at DESC
	`
	return r.queryStories(query, ownerID)
}

// GetPublicStories retrieves all public stories
func (r *StoryRepository) GetPublicStories() ([]models.Story, error) {
	query := `
		SELECT id, owner_id, title, body, dice, visibility, created_at, updated_at
		FROM stories WHERE visibility = 'public' ORDER BY updated_at DESC
	`
	return r.queryStories(query)
}

func (r *StoryRepository) queryStories(query string, args ...interface{}) ([]models.Story, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var story models.Story
		if err := rows.Scan(
			&story.ID, &story.OwnerID, &story.Title, &story.Body, &story.Dice,
			&story.Visibility, &story.CreatedAt, &story.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// DeleteStory deletes a story
func (r *StoryRepository) DeleteStory(id int64) error {
	query := "DELETE FROM stories WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
