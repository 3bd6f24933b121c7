package service

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hearthside/internal/models"
	"hearthside/internal/repository"
	"hearthside/internal/security"
	"hearthside/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	lineRepo        *repository.FamilyLineRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, lineRepo *repository.FamilyLineRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		lineRepo:        lineRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new account and provisions its empty family line
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, string(hash), name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Every person gets a family line up front so the graph engine never
	// has to create one mid-operation
	if _, err := s.lineRepo.EnsureLine(user.ID); err != nil {
		return nil, fmt.Errorf("failed to provision family line: %w", err)
	}

	return user, nil
}

// Login checks credentials and returns the user
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetOrCreateOAuthUser finds the account behind an OAuth identity,
// linking or creating it as needed
func (s *AuthService) GetOrCreateOAuthUser(provider, subject, email, name string) (*models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	// An existing password account with the same email wins; the OAuth
	// identity just signs into it
	user, err = s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.CreateOAuthUser(email, name, provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	if _, err := s.lineRepo.EnsureLine(user.ID); err != nil {
		return nil, fmt.Errorf("failed to provision family line: %w", err)
	}

	return user, nil
}

// CreateSession creates a new session for a user
func (s *AuthService) CreateSession(userID int64) (string, time.Time, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	if err := s.userRepo.CreateSession(sessionID, userID, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionID, expiresAt, nil
}

// ValidateSession validates a session and returns its user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout removes a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
