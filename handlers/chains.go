// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
)

type ChainHandler struct {
	store *store.Store
}

func NewChainHandler(st *store.Store) *ChainHandler {
	return &ChainHandler{store: st}
}

// CreateChain handles POST /api/tehillim-chains
func (h *ChainHandler) CreateChain(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChainRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Reason == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reason is required")
		return
	}

	chain, err := h.store.CreateChain(req.Name, req.Reason, req.DeviceID)
	if err != nil {
		slog.Error("failed to create chain", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create Tehillim chain")
		return
	}

	slog.Info("chain created", "chain_id", chain.ID, "slug", chain.Slug)

	middleware.JSONResponse(w, http.StatusOK, chain)
}

// Search handles GET /api/tehillim-chains/search?q=
// Discovery aid: storage errors degrade to an empty list.
func (h *ChainHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	chains, err := h.store.SearchChains(query)
	if err != nil {
		slog.Error("chain search failed, returning empty", "error", err, "query", query)
		middleware.JSONResponse(w, http.StatusOK, []models.Chain{})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, chains)
}

// GetChain handles GET /api/tehillim-chains/{slug}?deviceId=
// Returns the chain plus stats and the psalm the caller should read
// next: its own in-progress claim if it has one, otherwise a random
// available unit.
func (h *ChainHandler) GetChain(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	deviceID := r.URL.Query().Get("deviceId")

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim chain")
		return
	}

	var activeReading int
	if deviceID != "" {
		activeReading, err = h.store.ActiveReadingForDevice(chain.ID, deviceID)
		if err != nil {
			slog.Error("failed to fetch active reading", "error", err, "chain_id", chain.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim chain")
			return
		}
	}

	stats, err := h.store.ChainStats(chain.ID)
	if err != nil {
		slog.Error("failed to fetch chain stats", "error", err, "chain_id", chain.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim chain")
		return
	}

	nextPsalm := activeReading
	if nextPsalm == 0 {
		nextPsalm, err = h.store.RandomAvailablePsalm(chain.ID, 0)
		if err != nil {
			slog.Error("failed to pick next psalm", "error", err, "chain_id", chain.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch Tehillim chain")
			return
		}
	}

	resp := models.ChainDetailResponse{
		Chain:            chain,
		Stats:            models.WireStats(stats),
		HasActiveReading: activeReading != 0,
	}
	if nextPsalm != 0 {
		resp.NextPsalm = &nextPsalm
	}

	middleware.NoStore(w)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetStats handles GET /api/tehillim-chains/{slug}/stats
func (h *ChainHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch chain stats")
		return
	}

	stats, err := h.store.ChainStats(chain.ID)
	if err != nil {
		slog.Error("failed to fetch chain stats", "error", err, "chain_id", chain.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch chain stats")
		return
	}

	middleware.NoStore(w)
	middleware.JSONResponse(w, http.StatusOK, models.WireStats(stats))
}

// Random handles GET /api/tehillim-chains/random
func (h *ChainHandler) Random(w http.ResponseWriter, r *http.Request) {
	chain, err := h.store.RandomChain()
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No chains found")
		return
	}
	if err != nil {
		slog.Error("failed to pick random chain", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get random chain")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, chain)
}
