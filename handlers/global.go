// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ezrasnashim/tehillim-chain/analytics"
	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

type GlobalHandler struct {
	store *store.Store
	sink  analytics.Sink
}

func NewGlobalHandler(st *store.Store, sink analytics.Sink) *GlobalHandler {
	return &GlobalHandler{store: st, sink: sink}
}

// GetProgress handles GET /api/tehillim/progress
// Auto-initializes the rotation on first call.
func (h *GlobalHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.store.GetProgressWithAssignedName()
	if err != nil {
		slog.Error("failed to fetch progress", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, progress)
}

// Complete handles POST /api/tehillim/complete
// The caller reports the perek it just finished; the cursor moves past it.
func (h *GlobalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteGlobalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CurrentPerek < 1 || req.CurrentPerek > tehillim.BookPsalms {
		middleware.ErrorResponse(w, http.StatusBadRequest, "currentPerek must be between 1 and 150")
		return
	}
	if req.Language != models.LanguageHebrew && req.Language != models.LanguageEnglish {
		middleware.ErrorResponse(w, http.StatusBadRequest, "language must be 'hebrew' or 'english'")
		return
	}

	// Finishing perek 150 completes a pass through the whole book.
	if req.CurrentPerek == tehillim.BookPsalms {
		h.sink.Record(analytics.EventBookComplete, map[string]string{
			"scope":    "global",
			"language": req.Language,
		})
	}

	progress, err := h.store.AdvanceProgress(req.CurrentPerek, req.CompletedBy)
	if err != nil {
		slog.Error("failed to advance progress", "error", err, "current_perek", req.CurrentPerek)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete Tehillim")
		return
	}

	slog.Info("global perek completed", "perek", req.CurrentPerek, "next", progress.CurrentPerek)

	middleware.JSONResponse(w, http.StatusOK, progress)
}

// GetCurrentName handles GET /api/tehillim/current-name
// Returns the dedication name paired with the current perek, or null.
func (h *GlobalHandler) GetCurrentName(w http.ResponseWriter, r *http.Request) {
	progress, err := h.store.GetProgressWithAssignedName()
	if err != nil {
		slog.Error("failed to fetch current name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch current name")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, progress.AssignedName)
}

// GetNames handles GET /api/tehillim/names
func (h *GlobalHandler) GetNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ActiveNames()
	if err != nil {
		slog.Error("failed to fetch names", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim names")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, names)
}

// CreateName handles POST /api/tehillim/names
func (h *GlobalHandler) CreateName(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.HebrewName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "hebrewName is required")
		return
	}
	if req.Reason == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reason is required")
		return
	}

	name, err := h.store.CreateName(req.HebrewName, req.Reason)
	if err != nil {
		slog.Error("failed to create name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create Tehillim name")
		return
	}

	slog.Info("dedication name added", "name_id", name.ID)

	middleware.JSONResponse(w, http.StatusOK, name)
}

// GetGlobalProgress handles GET /api/tehillim/global-progress
// The raw cursor without name resolution.
func (h *GlobalHandler) GetGlobalProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.store.GetProgress()
	if err != nil {
		slog.Error("failed to fetch global progress", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch global tehillim progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, progress)
}

// parsePathInt reads an integer path value, returning ok=false when it
// is absent or malformed.
func parsePathInt(r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(key))
	if err != nil {
		return 0, false
	}
	return v, true
}
