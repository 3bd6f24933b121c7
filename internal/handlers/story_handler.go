package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hearthside/internal/dice"
	"hearthside/internal/service"
)

// StoryHandler handles dice-game story HTTP requests
type StoryHandler struct {
	storyService *service.StoryService
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

type storyRequest struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Dice       []string `json:"dice"`
	Visibility string   `json:"visibility"`
}

// RollDice rolls the word dice. The count query parameter picks how many
func (h *StoryHandler) RollDice(w http.ResponseWriter, r *http.Request) {
	count := dice.MaxDice
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid dice count", "", err)
			return
		}
		count = parsed
	}

	faces, err := h.storyService.RollDice(count)
	if err != nil {
		respondServiceError(w, "Failed to roll dice", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]string{"dice": faces})
}

// CreateStory stores a story and the roll it was written against
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	story, err := h.storyService.CreateStory(user.ID, req.Title, req.Body, req.Dice, req.Visibility)
	if err != nil {
		respondServiceError(w, "Failed to create story", err)
		return
	}

	respondJSON(w, http.StatusCreated, story)
}

// GetStory returns a single story, subject to visibility rules
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	storyID, err := parseID(r.PathValue("storyID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid story id", "", err)
		return
	}

	story, err := h.storyService.GetStory(user.ID, storyID)
	if err != nil {
		respondServiceError(w, "Failed to get story", err)
		return
	}

	respondJSON(w, http.StatusOK, story)
}

// GetOwnStories returns the authenticated user's stories
func (h *StoryHandler) GetOwnStories(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	stories, err := h.storyService.GetOwnStories(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to get stories", err)
		return
	}

	respondJSON(w, http.StatusOK, stories)
}

// GetStoriesOf returns another person's stories the viewer may see
func (h *StoryHandler) GetStoriesOf(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	stories, err := h.storyService.GetStoriesOf(user.ID, personID)
	if err != nil {
		respondServiceError(w, "Failed to get stories", err)
		return
	}

	respondJSON(w, http.StatusOK, stories)
}

// GetPublicStories returns every public story
func (h *StoryHandler) GetPublicStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.GetPublicStories()
	if err != nil {
		respondServiceError(w, "Failed to get stories", err)
		return
	}

	respondJSON(w, http.StatusOK, stories)
}

// DeleteStory deletes one of the authenticated user's stories
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	storyID, err := parseID(r.PathValue("storyID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid story id", "", err)
		return
	}

	if err := h.storyService.DeleteStory(user.ID, storyID); err != nil {
		respondServiceError(w, "Failed to delete story", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
