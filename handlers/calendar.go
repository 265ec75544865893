// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/store"
)

// icsTimeLayout is the floating local-time format used in VEVENT fields.
const icsTimeLayout = "20060102T150405"

// Reminder handles GET /api/tehillim-chains/{slug}/reminder.ics?time=HH:MM
// Generates a recurring weekly (Sunday-Friday) reminder starting
// tomorrow at the requested local time. No store writes.
func (h *ChainHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	chain, err := h.store.GetChainBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chain not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch chain", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate calendar file")
		return
	}

	reminderTime := r.URL.Query().Get("time")
	if reminderTime == "" {
		reminderTime = "09:00"
	}
	at, err := time.Parse("15:04", reminderTime)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "time must be in HH:MM format")
		return
	}

	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	end := start.Add(15 * time.Minute)

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	chainURL := fmt.Sprintf("%s://%s/c/%s", scheme, r.Host, chain.Slug)

	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Ezras Nashim//Tehillim Chain//EN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s-%d@ezrasnashim.app", chain.Slug, now.UnixMilli()),
		"DTSTAMP:" + now.Format(icsTimeLayout),
		"DTSTART:" + start.Format(icsTimeLayout),
		"DTEND:" + end.Format(icsTimeLayout),
		"RRULE:FREQ=WEEKLY;BYDAY=SU,MO,TU,WE,TH,FR",
		"SUMMARY:Daven for " + chain.Name,
		"LOCATION:" + chainURL,
		fmt.Sprintf("DESCRIPTION:Time to say Tehillim for %s. Open your Tehillim chain: %s", chain.Name, chainURL),
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tehillim-reminder-"+chain.Slug+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics)); err != nil {
		slog.Error("failed to write calendar response", "error", err)
	}
}
