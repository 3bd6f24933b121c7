package handlers

import (
	"fmt"
	"net/http"
	"time"

	"hearthside/internal/service"
)

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	backupService *service.BackupService
	graph         *service.GraphService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(backupService *service.BackupService, graph *service.GraphService) *AdminHandler {
	return &AdminHandler{
		backupService: backupService,
		graph:         graph,
	}
}

// ExportBackup streams a full database backup as a JSON download
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("hearthside_backup_%s.json", timestamp)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backupService.ExportToWriter(w); err != nil {
		// Headers may already be out; all we can do is log
		respondWithError(w, http.StatusInternalServerError, "Export failed", "Backup export failed", err)
	}
}

// ImportBackup restores the database from an uploaded backup file
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid upload", "", err)
		return
	}

	file, _, err := r.FormFile("backup")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing backup file", "", err)
		return
	}
	defer file.Close()

	if err := h.backupService.ImportFromReader(file); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Import failed", "Backup import failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// ReconcileFamilyGraph completes any one-sided family connections now
// instead of waiting for the background sweep
func (h *AdminHandler) ReconcileFamilyGraph(w http.ResponseWriter, r *http.Request) {
	completed, err := h.graph.ReconcileOneSidedEdges()
	if err != nil {
		respondServiceError(w, "Reconcile failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"completed": completed})
}

// ListOneSidedEdges reports connections currently missing their mirror
func (h *AdminHandler) ListOneSidedEdges(w http.ResponseWriter, r *http.Request) {
	edges, err := h.graph.FindOneSidedEdges()
	if err != nil {
		respondServiceError(w, "Failed to scan family graph", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(edges),
		"edges": edges,
	})
}
