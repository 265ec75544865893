// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ezrasnashim/tehillim-chain/analytics"
	"github.com/ezrasnashim/tehillim-chain/cache"
	"github.com/ezrasnashim/tehillim-chain/cliparse"
	"github.com/ezrasnashim/tehillim-chain/handlers"
	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/sefaria"
	"github.com/ezrasnashim/tehillim-chain/store"
)

// globalStatsTTL bounds how stale the cross-chain stats response may be.
const globalStatsTTL = 5 * time.Minute

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	st := store.New(db)
	sink := analytics.NewDBSink(db)
	statsCache := cache.New[models.GlobalChainStats](globalStatsTTL)
	texts := sefaria.NewClient(cfg.TextAPIBaseURL)

	globalHandler := handlers.NewGlobalHandler(st, sink)
	chainHandler := handlers.NewChainHandler(st)
	readingHandler := handlers.NewReadingHandler(st, sink, statsCache)
	statsHandler := handlers.NewStatsHandler(st, statsCache)
	textHandler := handlers.NewTextHandler(texts)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Global rotation
	mux.HandleFunc("GET /api/tehillim/progress", middleware.WithLogging(globalHandler.GetProgress))
	mux.HandleFunc("POST /api/tehillim/complete", middleware.WithLogging(globalHandler.Complete))
	mux.HandleFunc("GET /api/tehillim/current-name", middleware.WithLogging(globalHandler.GetCurrentName))
	mux.HandleFunc("GET /api/tehillim/names", middleware.WithLogging(globalHandler.GetNames))
	mux.HandleFunc("POST /api/tehillim/names", middleware.WithLogging(globalHandler.CreateName))
	mux.HandleFunc("GET /api/tehillim/global-progress", middleware.WithLogging(globalHandler.GetGlobalProgress))

	// Catalog and text provider
	mux.HandleFunc("GET /api/tehillim/info/{id}", middleware.WithLogging(textHandler.Info))
	mux.HandleFunc("GET /api/tehillim/text/{id}", middleware.WithLogging(textHandler.Text))
	mux.HandleFunc("GET /api/tehillim/next-part/{id}", middleware.WithLogging(textHandler.NextPart))
	mux.HandleFunc("GET /api/tehillim/preview/{perek}", middleware.WithLogging(textHandler.Preview))
	mux.HandleFunc("GET /api/tehillim/{tehillimId}", middleware.WithLogging(textHandler.Detail))

	// Chains
	mux.HandleFunc("POST /api/tehillim-chains", middleware.WithLogging(chainHandler.CreateChain))
	mux.HandleFunc("GET /api/tehillim-chains/search", middleware.WithLogging(chainHandler.Search))
	mux.HandleFunc("GET /api/tehillim-chains/random", middleware.WithLogging(chainHandler.Random))
	mux.HandleFunc("GET /api/tehillim-chains/stats/total", middleware.WithLogging(statsHandler.Total))
	mux.HandleFunc("GET /api/tehillim-chains/stats/global", middleware.WithLogging(statsHandler.Global))
	mux.HandleFunc("GET /api/tehillim-chains/stats/active-count", middleware.WithLogging(statsHandler.ActiveCount))
	mux.HandleFunc("GET /api/tehillim-chains/{slug}", middleware.WithLogging(chainHandler.GetChain))
	mux.HandleFunc("GET /api/tehillim-chains/{slug}/stats", middleware.WithLogging(chainHandler.GetStats))
	mux.HandleFunc("GET /api/tehillim-chains/{slug}/reminder.ics", middleware.WithLogging(chainHandler.Reminder))

	// Chain readings
	mux.HandleFunc("POST /api/tehillim-chains/{slug}/start-reading", middleware.WithLogging(readingHandler.StartReading))
	mux.HandleFunc("POST /api/tehillim-chains/{slug}/complete", middleware.WithLogging(readingHandler.CompleteReading))
	mux.HandleFunc("GET /api/tehillim-chains/{slug}/next-available", middleware.WithLogging(readingHandler.NextAvailable))
	mux.HandleFunc("GET /api/tehillim-chains/{slug}/random-available", middleware.WithLogging(readingHandler.RandomAvailable))

	// Root endpoint. {$} keeps this from swallowing unknown paths, so
	// method mismatches elsewhere still get 405.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tehillim-chain API v1"))
	})

	return mux
}
