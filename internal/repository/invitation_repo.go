package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hearthside/internal/database"
	"hearthside/internal/models"
)

// InvitationRepository handles database operations for connection invitations
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateInvitation records a pending invitation
func (r *InvitationRepository) CreateInvitation(inviterID int64, recipientEmail, relation, networkType string) (*models.Invitation, error) {
	query := "INSERT INTO invitations (inviter_id, recipient_email, relation, network_type) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, inviterID, recipientEmail, relation, networkType)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:             id,
		InviterID:      inviterID,
		RecipientEmail: recipientEmail,
		Relation:       relation,
		NetworkType:    networkType,
		CreatedAt:      time.Now(),
	}, nil
}

// GetInvitationByID retrieves an invitation by id. Returns nil when unknown
func (r *InvitationRepository) GetInvitationByID(id int64) (*models.Invitation, error) {
	query := `
		SELECT id, inviter_id, recipient_email, relation, network_type, created_at, accepted_at
		FROM invitations WHERE id = ?
	`
	invitation := &models.Invitation{}
	var acceptedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&invitation.ID,
		&invitation.InviterID,
		&invitation.RecipientEmail,
		&invitation.Relation,
		&invitation.NetworkType,
		&invitation.CreatedAt,
		&acceptedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	if acceptedAt.Valid {
		invitation.AcceptedAt = &acceptedAt.Time
	}
	return invitation, nil
}

// GetInvitationsByInviter retrieves all invitations a person has sent
func (r *InvitationRepository) GetInvitationsByInviter(inviterID int64) ([]models.Invitation, error) {
	query := `
		SELECT id, inviter_id, recipient_email, relation, network_type, created_at, accepted_at
		FROM invitations WHERE inviter_id = ? ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var acceptedAt sql.NullTime
		if err := rows.Scan(
			&invitation.ID, &invitation.InviterID, &invitation.RecipientEmail,
			&invitation.Relation, &invitation.NetworkType, &invitation.CreatedAt, &acceptedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		if acceptedAt.Valid {
			invitation.AcceptedAt = &acceptedAt.Time
		}
		invitations = append(invitations, invitation)
	}

	return invitations, rows.Err()
}

// MarkAccepted records that an invitation has been redeemed
func (r *InvitationRepository) MarkAccepted(id int64) error {
	query := "UPDATE invitations SET accepted_at = CURRENT_TIMESTAMP WHERE id = ? AND accepted_at IS NULL"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check invitation update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invitation %d already accepted or missing", id)
	}
	return nil
}
