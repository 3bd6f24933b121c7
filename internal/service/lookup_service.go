package service

import (
	"fmt"

	"hearthside/internal/repository"
)

// Party is a resolved person: their directory identity plus the row id of
// their family line
type Party struct {
	PersonID     int64
	FamilyLineID int64
	Name         string
	Email        string
}

// LookupService resolves people between the user directory and the
// family-line store. Read-only
type LookupService struct {
	userRepo *repository.UserRepository
	lineRepo *repository.FamilyLineRepository
}

// NewLookupService creates a new lookup service
func NewLookupService(userRepo *repository.UserRepository, lineRepo *repository.FamilyLineRepository) *LookupService {
	return &LookupService{
		userRepo: userRepo,
		lineRepo: lineRepo,
	}
}

// ResolveEmail resolves an email to a person and their family line
func (s *LookupService) ResolveEmail(email string) (*Party, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("person %s: %w", email, ErrNotFound)
	}
	return s.partyFor(user.ID, user.Name, user.Email)
}

// ResolveID resolves a person id to their identity and family line
func (s *LookupService) ResolveID(personID int64) (*Party, error) {
	user, err := s.userRepo.GetUserByID(personID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve person: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("person %d: %w", personID, ErrNotFound)
	}
	return s.partyFor(user.ID, user.Name, user.Email)
}

func (s *LookupService) partyFor(personID int64, name, email string) (*Party, error) {
	party := &Party{
		PersonID: personID,
		Name:     name,
		Email:    email,
	}

	line, err := s.lineRepo.GetByPersonID(personID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family line: %w", err)
	}
	if line != nil {
		party.FamilyLineID = line.ID
	}
	return party, nil
}
