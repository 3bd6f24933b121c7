package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hearthside/internal/relationship"
	"hearthside/internal/service"
	"hearthside/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, map[string]string{"error": userMsg})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondServiceError translates service-layer errors into HTTP statuses.
// Anything unrecognized is treated as the store being unreachable
func respondServiceError(w http.ResponseWriter, logMsg string, err error) {
	var validationErr validation.ValidationError
	var partialErr *service.PartialApplyError

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), logMsg, err)
	case errors.Is(err, relationship.ErrUnknownNetworkType):
		respondWithError(w, http.StatusBadRequest, "Unknown network type", logMsg, err)
	case errors.Is(err, service.ErrSelfConnection):
		respondWithError(w, http.StatusBadRequest, "Cannot add yourself", logMsg, err)
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", logMsg, err)
	case errors.Is(err, service.ErrNotOwner):
		respondWithError(w, http.StatusForbidden, "Not allowed", logMsg, err)
	case errors.Is(err, service.ErrEdgeExists):
		respondWithError(w, http.StatusConflict, "Connection already exists", logMsg, err)
	case errors.Is(err, service.ErrVersionConflict):
		respondWithError(w, http.StatusConflict, "Concurrent update, please retry", logMsg, err)
	case errors.As(err, &partialErr):
		// The write landed on one side only. Report it honestly so the
		// caller knows the graph is temporarily lopsided
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Connection partially applied; it will be completed automatically",
			"state": "partially_applied",
		})
		log.Printf("%s: %v", logMsg, err)
	default:
		respondWithError(w, http.StatusServiceUnavailable, "Service temporarily unavailable", logMsg, err)
	}
}
