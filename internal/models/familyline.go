package models

import "time"

// FamilyLine is the stored per-person family document row. The document
// column holds the JSON membership list; version backs the optimistic
// concurrency check on every write
type FamilyLine struct {
	ID        int64
	PersonID  int64
	Document  string
	Version   int64
	UpdatedAt time.Time
}
