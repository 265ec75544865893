// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ezrasnashim/tehillim-chain/cache"
	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
)

// StatsHandler serves the cross-chain vanity counters. These endpoints
// degrade to zeroed values on storage failure rather than erroring.
type StatsHandler struct {
	store      *store.Store
	statsCache *cache.TTL[models.GlobalChainStats]
}

func NewStatsHandler(st *store.Store, statsCache *cache.TTL[models.GlobalChainStats]) *StatsHandler {
	return &StatsHandler{store: st, statsCache: statsCache}
}

// Total handles GET /api/tehillim-chains/stats/total
func (h *StatsHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.TotalCompleted()
	if err != nil {
		slog.Error("failed to fetch total completions, returning 0", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.TotalResponse{Total: 0})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TotalResponse{Total: total})
}

// Global handles GET /api/tehillim-chains/stats/global
// Served from a 5-minute cache that chain completions invalidate.
func (h *StatsHandler) Global(w http.ResponseWriter, r *http.Request) {
	if stats, ok := h.statsCache.Get(); ok {
		middleware.JSONResponse(w, http.StatusOK, stats)
		return
	}

	stats, err := h.store.GlobalStats()
	if err != nil {
		slog.Error("failed to fetch global stats, returning zeros", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.GlobalChainStats{})
		return
	}

	h.statsCache.Set(stats)
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// ActiveCount handles GET /api/tehillim-chains/stats/active-count
func (h *StatsHandler) ActiveCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.ActiveChainCount()
	if err != nil {
		slog.Error("failed to count active chains, returning 0", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: 0})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: count})
}
