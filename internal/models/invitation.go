package models

import "time"

// Invitation represents a pending family-connection invite sent by email
type Invitation struct {
	ID             int64
	InviterID      int64
	RecipientEmail string
	Relation       string
	NetworkType    string
	CreatedAt      time.Time
	AcceptedAt     *time.Time
}

// IsAccepted reports whether the invitation has already been redeemed
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}
