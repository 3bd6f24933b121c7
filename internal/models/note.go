package models

import "time"

// Visibility levels shared by notes, recipes and stories
const (
	VisibilityPublic  = "public"
	VisibilityFamily  = "family"
	VisibilityPrivate = "private"
)

// Note represents a personal note
type Note struct {
	ID         int64
	OwnerID    int64
	Title      string
	Body       string
	Visibility string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
