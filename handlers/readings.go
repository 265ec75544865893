// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ezrasnashim/tehillim-chain/analytics"
	"github.com/ezrasnashim/tehillim-chain/cache"
	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

type ReadingHandler struct {
	store      *store.Store
	sink       analytics.Sink
	statsCache *cache.TTL[models.GlobalChainStats]
}

func NewReadingHandler(st *store.Store, sink analytics.Sink, statsCache *cache.TTL[models.GlobalChainStats]) *ReadingHandler {
	return &ReadingHandler{store: st, sink: sink, statsCache: statsCache}
}

// StartReading handles POST /api/tehillim-chains/{slug}/start-reading
// Claims the requested psalm, or a random available one if the body
// omits psalmNumber.
func (h *ReadingHandler) StartReading(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var req models.StartReadingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DeviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}
	if req.PsalmNumber != 0 && (req.PsalmNumber < 1 || req.PsalmNumber > tehillim.UnitCount) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "psalmNumber must be between 1 and 171")
		return
	}

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start reading")
		return
	}

	var reading models.ChainReading
	if req.PsalmNumber != 0 {
		reading, err = h.store.StartReading(chain.ID, req.PsalmNumber, req.DeviceID)
	} else {
		reading, err = h.store.StartRandomReading(chain.ID, req.DeviceID, 0)
	}

	switch {
	case errors.Is(err, store.ErrNoPsalmsAvailable):
		middleware.ErrorResponse(w, http.StatusNotFound, "No psalms available - all have been completed or are being read")
		return
	case errors.Is(err, store.ErrPsalmTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Psalm is already being read")
		return
	case err != nil:
		slog.Error("failed to start reading", "error", err, "chain_id", chain.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start reading")
		return
	}

	slog.Info("reading started", "chain_id", chain.ID, "psalm", reading.PsalmNumber)

	middleware.JSONResponse(w, http.StatusOK, reading)
}

// CompleteReading handles POST /api/tehillim-chains/{slug}/complete
func (h *ReadingHandler) CompleteReading(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var req models.CompleteReadingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.DeviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deviceId is required")
		return
	}
	if req.PsalmNumber < 1 || req.PsalmNumber > tehillim.UnitCount {
		middleware.ErrorResponse(w, http.StatusBadRequest, "psalmNumber must be between 1 and 171")
		return
	}

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete reading")
		return
	}

	reading, lapDone, err := h.store.CompleteReading(chain.ID, req.PsalmNumber, req.DeviceID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active reading found for this psalm")
		return
	}
	if err != nil {
		slog.Error("failed to complete reading", "error", err, "chain_id", chain.ID, "psalm", req.PsalmNumber)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete reading")
		return
	}

	h.sink.Record(analytics.EventPsalmComplete, map[string]string{
		"chain_id": chain.ID,
		"psalm":    strconv.Itoa(req.PsalmNumber),
	})
	if lapDone {
		slog.Info("chain finished the book", "chain_id", chain.ID, "lap", reading.Lap)
		h.sink.Record(analytics.EventBookComplete, map[string]string{
			"scope":    "chain",
			"chain_id": chain.ID,
		})
	}

	h.statsCache.Invalidate()

	stats, err := h.store.ChainStats(chain.ID)
	if err != nil {
		slog.Error("failed to fetch chain stats", "error", err, "chain_id", chain.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete reading")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CompleteReadingResponse{
		Reading: reading,
		Stats:   models.WireStats(stats),
	})
}

// NextAvailable handles GET /api/tehillim-chains/{slug}/next-available
func (h *ReadingHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	h.randomAvailable(w, r, 0)
}

// RandomAvailable handles GET /api/tehillim-chains/{slug}/random-available
// Supports ?excludePsalm= so a client can ask for a different unit than
// the one it was just shown.
func (h *ReadingHandler) RandomAvailable(w http.ResponseWriter, r *http.Request) {
	exclude := 0
	if v := r.URL.Query().Get("excludePsalm"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err == nil && parsed >= 1 && parsed <= tehillim.UnitCount {
			exclude = parsed
		}
	}
	h.randomAvailable(w, r, exclude)
}

func (h *ReadingHandler) randomAvailable(w http.ResponseWriter, r *http.Request, exclude int) {
	slug := r.PathValue("slug")

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get next psalm")
		return
	}

	psalm, err := h.store.RandomAvailablePsalm(chain.ID, exclude)
	if err != nil {
		slog.Error("failed to pick psalm", "error", err, "chain_id", chain.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get next psalm")
		return
	}
	if psalm == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No psalms available")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PsalmNumberResponse{PsalmNumber: psalm})
}
