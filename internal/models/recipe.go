package models

import "time"

// Recipe represents a recipe entry
type Recipe struct {
	ID           int64
	OwnerID      int64
	Title        string
	Ingredients  string
	Instructions string
	Visibility   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
