package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hearthside/internal/familydoc"
	"hearthside/internal/relationship"
	"hearthside/internal/service"
)

// FamilyHandler handles family-graph HTTP requests
type FamilyHandler struct {
	graph   *service.GraphService
	catalog *relationship.Catalog
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(graph *service.GraphService, catalog *relationship.Catalog) *FamilyHandler {
	return &FamilyHandler{
		graph:   graph,
		catalog: catalog,
	}
}

type addMemberRequest struct {
	PersonID           int64  `json:"person_id"`
	Relation           string `json:"relation"`
	ReciprocalRelation string `json:"reciprocal_relation"`
	NetworkType        string `json:"network_type"`
}

type updateMemberRequest struct {
	Relation    string `json:"relation"`
	NetworkType string `json:"network_type"`
}

// GetOwnFamily returns the authenticated user's family members
func (h *FamilyHandler) GetOwnFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	members, err := h.graph.Members(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to read family", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]familydoc.Member{"members": members})
}

// GetFamilyOf returns another person's family members. Only people on
// that person's own family line may look
func (h *FamilyHandler) GetFamilyOf(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	connected, err := h.graph.AreConnected(personID, user.ID)
	if err != nil {
		respondServiceError(w, "Failed to check connection", err)
		return
	}
	if !connected {
		respondWithError(w, http.StatusForbidden, "Not connected to this person", "", nil)
		return
	}

	members, err := h.graph.Members(personID)
	if err != nil {
		respondServiceError(w, "Failed to read family", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]familydoc.Member{"members": members})
}

// AddMember adds a family connection from the authenticated user to
// another person
func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	member, err := h.graph.AddEdge(user.Email, req.PersonID, req.Relation, req.ReciprocalRelation, req.NetworkType)
	if err != nil {
		respondServiceError(w, "Failed to add family member", err)
		return
	}

	respondJSON(w, http.StatusCreated, member)
}

// UpdateMember changes the label and network type the authenticated user
// has for an existing connection. The other person's side is untouched
func (h *FamilyHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	member, err := h.graph.UpdateEdge(user.Email, personID, req.Relation, req.NetworkType)
	if err != nil {
		respondServiceError(w, "Failed to update family member", err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// RemoveMember removes the connection between the authenticated user and
// another person, from both sides
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	personID, err := parseID(r.PathValue("personID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid person id", "", err)
		return
	}

	removed, err := h.graph.RemoveEdge(user.Email, personID)
	if err != nil {
		respondServiceError(w, "Failed to remove family member", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{
		"person_id": removed.PersonID,
		"remaining": int64(removed.Remaining),
	})
}

// GetNetworkTypes lists the known network types and their levels
func (h *FamilyHandler) GetNetworkTypes(w http.ResponseWriter, r *http.Request) {
	types := h.catalog.Types()
	levels := make(map[string]int, len(types))
	for _, t := range types {
		level, err := h.catalog.Level(t)
		if err != nil {
			continue
		}
		levels[t] = level
	}
	respondJSON(w, http.StatusOK, map[string]map[string]int{"network_types": levels})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
