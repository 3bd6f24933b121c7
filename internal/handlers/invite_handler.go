package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hearthside/internal/service"
)

// InviteHandler handles connection-invitation HTTP requests
type InviteHandler struct {
	inviteService *service.InviteService
	emailService  *service.EmailService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *service.InviteService, emailService *service.EmailService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		emailService:  emailService,
	}
}

type createInviteRequest struct {
	Email       string `json:"email"`
	Relation    string `json:"relation"`
	NetworkType string `json:"network_type"`
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

// CreateInvite sends a connection invitation by email. When the email
// service is disabled the signed token comes back in the response so the
// link can be shared by hand
func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	invitation, token, err := h.inviteService.CreateInvite(r.Context(), user.ID, req.Email, req.Relation, req.NetworkType)
	if err != nil {
		respondServiceError(w, "Failed to create invitation", err)
		return
	}

	payload := map[string]interface{}{
		"id":              invitation.ID,
		"recipient_email": invitation.RecipientEmail,
		"relation":        invitation.Relation,
		"network_type":    invitation.NetworkType,
	}
	if !h.emailService.IsEnabled() {
		payload["token"] = token
	}

	respondJSON(w, http.StatusCreated, payload)
}

// AcceptInvite redeems an invitation token, connecting the authenticated
// user to the inviter
func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req acceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	invitation, err := h.inviteService.AcceptInvite(user, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteInvalid):
			respondWithError(w, http.StatusBadRequest, "Invitation is invalid or expired", "", nil)
		case errors.Is(err, service.ErrInviteAccepted):
			respondWithError(w, http.StatusConflict, "Invitation already accepted", "", nil)
		case errors.Is(err, service.ErrInviteWrongEmail):
			respondWithError(w, http.StatusForbidden, "Invitation was sent to a different email address", "", nil)
		default:
			respondServiceError(w, "Failed to accept invitation", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":         invitation.ID,
		"inviter_id": invitation.InviterID,
		"status":     "accepted",
	})
}

// GetSentInvites lists the invitations the authenticated user has sent
func (h *InviteHandler) GetSentInvites(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	invitations, err := h.inviteService.GetSentInvites(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to get invitations", err)
		return
	}

	respondJSON(w, http.StatusOK, invitations)
}
