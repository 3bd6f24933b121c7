package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"hearthside/internal/relationship"
	"hearthside/internal/service"
	"hearthside/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", body["error"])
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrNotFound, 404},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrNotFound), 404},
		{"edge exists", service.ErrEdgeExists, 409},
		{"version conflict", service.ErrVersionConflict, 409},
		{"not owner", service.ErrNotOwner, 403},
		{"self connection", service.ErrSelfConnection, 400},
		{"unknown network type", relationship.ErrUnknownNetworkType, 400},
		{"validation", validation.ValidationError{Field: "title", Message: "title is required"}, 400},
		{"partial apply", &service.PartialApplyError{Op: "add", OwnerID: 1, TargetID: 2, OwnerWritten: true, Cause: errors.New("down")}, 500},
		{"unclassified", errors.New("connection refused"), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, "test", tt.err)
			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondServiceErrorPartialApplyBody(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondServiceError(recorder, "test", &service.PartialApplyError{
		Op: "remove", OwnerID: 1, TargetID: 2, OwnerWritten: true, Cause: errors.New("down"),
	})

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["state"] != "partially_applied" {
		t.Errorf("state = %q, want partially_applied", body["state"])
	}
}
