package service

import (
	"encoding/json"
	"fmt"

	"hearthside/internal/dice"
	"hearthside/internal/models"
	"hearthside/internal/repository"
	"hearthside/internal/validation"
)

// StoryService handles the dice-writing game: rolling word prompts and
// managing the stories written against them
type StoryService struct {
	storyRepo *repository.StoryRepository
	graph     *GraphService
}

// NewStoryService creates a new story service
func NewStoryService(storyRepo *repository.StoryRepository, graph *GraphService) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		graph:     graph,
	}
}

// RollDice rolls n word dice and returns the prompt faces
func (s *StoryService) RollDice(n int) ([]string, error) {
	faces, err := dice.Roll(n)
	if err != nil {
		return nil, fmt.Errorf("failed to roll dice: %w", err)
	}
	return faces, nil
}

// CreateStory stores a story together with the dice roll it was written
// against
func (s *StoryService) CreateStory(ownerID int64, title, body string, diceFaces []string, visibility string) (*models.Story, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidateVisibility(visibility); err != nil {
		return nil, err
	}
	if len(diceFaces) > dice.MaxDice {
		diceFaces = diceFaces[:dice.MaxDice]
	}

	diceJSON, err := json.Marshal(diceFaces)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dice roll: %w", err)
	}

	story, err := s.storyRepo.CreateStory(ownerID, title, body, string(diceJSON), visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

// GetStory retrieves a story the viewer is allowed to see
func (s *StoryService) GetStory(viewerID, storyID int64) (*models.Story, error) {
	story, err := s.storyRepo.GetStoryByID(storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	if story == nil {
		return nil, ErrNotFound
	}

	visible, err := visibleTo(s.graph, story.Visibility, story.OwnerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check visibility: %w", err)
	}
	if !visible {
		return nil, ErrNotFound
	}

	return story, nil
}

// GetOwnStories retrieves all of a person's own stories
func (s *StoryService) GetOwnStories(ownerID int64) ([]models.Story, error) {
	stories, err := s.storyRepo.GetStoriesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}
	return stories, nil
}

// GetStoriesOf retrieves another person's stories, filtered to what the
// viewer may see
func (s *StoryService) GetStoriesOf(viewerID, ownerID int64) ([]models.Story, error) {
	stories, err := s.storyRepo.GetStoriesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}

	visible := make([]models.Story, 0, len(stories))
	for _, story := range stories {
		ok, err := visibleTo(s.graph, story.Visibility, story.OwnerID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check visibility: %w", err)
		}
		if ok {
			visible = append(visible, story)
		}
	}
	return visible, nil
}

// GetPublicStories retrieves all public stories
func (s *StoryService) GetPublicStories() ([]models.Story, error) {
	stories, err := s.storyRepo.GetPublicStories()
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}
	return stories, nil
}

// DeleteStory deletes a story; only the owner may
func (s *StoryService) DeleteStory(ownerID, storyID int64) error {
	story, err := s.storyRepo.GetStoryByID(storyID)
	if err != nil {
		return fmt.Errorf("failed to get story: %w", err)
	}
	if story == nil {
		return ErrNotFound
	}
	if story.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.storyRepo.DeleteStory(storyID); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
