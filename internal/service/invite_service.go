package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hearthside/internal/models"
	"hearthside/internal/repository"
	"hearthside/internal/validation"
)

var (
	// ErrInviteInvalid is returned when an invite token fails verification
	// or its invitation row is gone
	ErrInviteInvalid = errors.New("invitation is invalid")
	// ErrInviteAccepted is returned when an invitation has already been
	// redeemed
	ErrInviteAccepted = errors.New("invitation already accepted")
	// ErrInviteWrongEmail is returned when the accepting account's email
	// does not match the invited address
	ErrInviteWrongEmail = errors.New("invitation was sent to a different email address")
)

// inviteClaims is the signed payload of an invitation token
type inviteClaims struct {
	InviterID      int64  `json:"inviter_id"`
	RecipientEmail string `json:"recipient_email"`
	jwt.RegisteredClaims
}

// InviteService issues and redeems family-connection invitations. An
// invitation is a database row plus a signed token emailed to the
// recipient; redeeming it creates the graph edge between inviter and
// accepter
type InviteService struct {
	inviteRepo  *repository.InvitationRepository
	userRepo    *repository.UserRepository
	graph       *GraphService
	email       *EmailService
	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewInviteService creates a new invite service
func NewInviteService(
	inviteRepo *repository.InvitationRepository,
	userRepo *repository.UserRepository,
	graph *GraphService,
	email *EmailService,
	tokenSecret string,
	tokenTTL time.Duration,
) *InviteService {
	return &InviteService{
		inviteRepo:  inviteRepo,
		userRepo:    userRepo,
		graph:       graph,
		email:       email,
		tokenSecret: []byte(tokenSecret),
		tokenTTL:    tokenTTL,
	}
}

// CreateInvite records an invitation, signs its token, and emails the
// accept link. The token is returned so callers can surface it when the
// email service is disabled
func (s *InviteService) CreateInvite(ctx context.Context, inviterID int64, recipientEmail, relation, networkType string) (*models.Invitation, string, error) {
	recipientEmail = strings.ToLower(strings.TrimSpace(recipientEmail))
	if err := validation.ValidateEmail(recipientEmail); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateRelationLabel(relation); err != nil {
		return nil, "", err
	}
	if _, err := s.graph.catalog.Level(networkType); err != nil {
		return nil, "", err
	}

	inviter, err := s.userRepo.GetUserByID(inviterID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get inviter: %w", err)
	}
	if inviter == nil {
		return nil, "", ErrNotFound
	}
	if strings.EqualFold(inviter.Email, recipientEmail) {
		return nil, "", ErrSelfConnection
	}

	invitation, err := s.inviteRepo.CreateInvitation(inviterID, recipientEmail, relation, networkType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	token, err := s.signToken(invitation)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign invitation token: %w", err)
	}

	if err := s.email.SendConnectionInvite(ctx, recipientEmail, inviter.Name, relation, token); err != nil {
		// The invitation row and token are still valid; the link can be
		// shared out of band
		log.Printf("Failed to send invitation email to %s: %v", recipientEmail, err)
	}

	return invitation, token, nil
}

// AcceptInvite verifies a token and connects the accepter to the
// inviter. The accepter's account email must match the invited address
func (s *InviteService) AcceptInvite(accepter *models.User, token string) (*models.Invitation, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInviteInvalid
	}

	inviteID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInviteInvalid
	}

	invitation, err := s.inviteRepo.GetInvitationByID(inviteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if invitation == nil {
		return nil, ErrInviteInvalid
	}
	if invitation.IsAccepted() {
		return nil, ErrInviteAccepted
	}
	if !strings.EqualFold(invitation.RecipientEmail, accepter.Email) {
		return nil, ErrInviteWrongEmail
	}

	inviter, err := s.userRepo.GetUserByID(invitation.InviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inviter: %w", err)
	}
	if inviter == nil {
		return nil, ErrInviteInvalid
	}

	// The inviter owns the new edge; the accepter's side carries the
	// same label until either of them renames it
	if _, err := s.graph.AddEdge(inviter.Email, accepter.ID, invitation.Relation, "", invitation.NetworkType); err != nil {
		if !errors.Is(err, ErrEdgeExists) {
			return nil, fmt.Errorf("failed to connect invitation parties: %w", err)
		}
	}

	if err := s.inviteRepo.MarkAccepted(invitation.ID); err != nil {
		return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	now := time.Now()
	invitation.AcceptedAt = &now
	return invitation, nil
}

// GetSentInvites retrieves the invitations a person has sent
func (s *InviteService) GetSentInvites(inviterID int64) ([]models.Invitation, error) {
	invitations, err := s.inviteRepo.GetInvitationsByInviter(inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}
	return invitations, nil
}

func (s *InviteService) signToken(invitation *models.Invitation) (string, error) {
	now := time.Now()
	claims := inviteClaims{
		InviterID:      invitation.InviterID,
		RecipientEmail: invitation.RecipientEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(invitation.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.tokenSecret)
}

func (s *InviteService) parseToken(token string) (*inviteClaims, error) {
	claims := &inviteClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.tokenSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}
