package service

import (
	"strconv"
	"testing"
	"time"

	"hearthside/internal/models"
)

func newTokenOnlyInviteService(secret string, ttl time.Duration) *InviteService {
	return &InviteService{
		tokenSecret: []byte(secret),
		tokenTTL:    ttl,
	}
}

func TestInviteTokenRoundTrip(t *testing.T) {
	svc := newTokenOnlyInviteService("test-secret", time.Hour)
	invitation := &models.Invitation{
		ID:             42,
		InviterID:      7,
		RecipientEmail: "bob@example.com",
	}

	token, err := svc.signToken(invitation)
	if err != nil {
		t.Fatalf("signToken() error = %v", err)
	}

	claims, err := svc.parseToken(token)
	if err != nil {
		t.Fatalf("parseToken() error = %v", err)
	}

	if claims.Subject != strconv.FormatInt(invitation.ID, 10) {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.InviterID != invitation.InviterID {
		t.Errorf("inviter id = %d, want %d", claims.InviterID, invitation.InviterID)
	}
	if claims.RecipientEmail != invitation.RecipientEmail {
		t.Errorf("recipient email = %q, want %q", claims.RecipientEmail, invitation.RecipientEmail)
	}
}

func TestInviteTokenWrongSecret(t *testing.T) {
	signer := newTokenOnlyInviteService("secret-one", time.Hour)
	verifier := newTokenOnlyInviteService("secret-two", time.Hour)

	token, err := signer.signToken(&models.Invitation{ID: 1, InviterID: 2, RecipientEmail: "a@example.com"})
	if err != nil {
		t.Fatalf("signToken() error = %v", err)
	}

	if _, err := verifier.parseToken(token); err == nil {
		t.Error("parseToken() with wrong secret should fail")
	}
}

func TestInviteTokenExpired(t *testing.T) {
	svc := newTokenOnlyInviteService("test-secret", -time.Minute)

	token, err := svc.signToken(&models.Invitation{ID: 1, InviterID: 2, RecipientEmail: "a@example.com"})
	if err != nil {
		t.Fatalf("signToken() error = %v", err)
	}

	if _, err := svc.parseToken(token); err == nil {
		t.Error("parseToken() of expired token should fail")
	}
}

func TestInviteTokenGarbage(t *testing.T) {
	svc := newTokenOnlyInviteService("test-secret", time.Hour)
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := svc.parseToken(token); err == nil {
			t.Errorf("parseToken(%q) should fail", token)
		}
	}
}
