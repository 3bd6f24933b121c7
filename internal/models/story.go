package models

import "time"

// Story represents a piece written for the prompt-dice game. Dice holds
// the rolled prompt words as a JSON array, kept with the story so the
// roll it was written against survives
type Story struct {
	ID         int64
	OwnerID    int64
	Title      string
	Body       string
	Dice       string
	Visibility string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
