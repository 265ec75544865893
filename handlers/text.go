// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/ezrasnashim/tehillim-chain/middleware"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/sefaria"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

// TextHandler serves catalog metadata and proxies psalm text from the
// external provider. No psalm text touches the database.
type TextHandler struct {
	texts *sefaria.Client
}

func NewTextHandler(texts *sefaria.Client) *TextHandler {
	return &TextHandler{texts: texts}
}

type unitInfoResponse struct {
	tehillim.Unit
	DisplayTitle string `json:"displayTitle"`
}

// Info handles GET /api/tehillim/info/{id}
func (h *TextHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathInt(r, "id")
	if !ok || id < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	unit, ok := tehillim.ByID(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tehillim not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, unitInfoResponse{
		Unit:         unit,
		DisplayTitle: tehillim.DisplayTitle(unit),
	})
}

// Text handles GET /api/tehillim/text/{id}?language=
func (h *TextHandler) Text(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathInt(r, "id")
	if !ok || id < 1 || id > tehillim.UnitCount {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ID must be between 1 and 171")
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = models.LanguageEnglish
	}
	if language != models.LanguageHebrew && language != models.LanguageEnglish {
		middleware.ErrorResponse(w, http.StatusBadRequest, "language must be 'hebrew' or 'english'")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.texts.UnitText(id, language))
}

type previewResponse struct {
	Preview  string `json:"preview"`
	Perek    int    `json:"perek"`
	Language string `json:"language"`
}

// Preview handles GET /api/tehillim/preview/{perek}?language=
// First line of the unit's text, for list views.
func (h *TextHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathInt(r, "perek")
	if !ok || id < 1 || id > tehillim.UnitCount {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Perek must be between 1 and 171")
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = models.LanguageHebrew
	}
	if language != models.LanguageHebrew && language != models.LanguageEnglish {
		middleware.ErrorResponse(w, http.StatusBadRequest, "language must be 'hebrew' or 'english'")
		return
	}

	text := h.texts.UnitText(id, language)
	middleware.JSONResponse(w, http.StatusOK, previewResponse{
		Preview:  firstLine(text.Text),
		Perek:    text.Perek,
		Language: text.Language,
	})
}

// firstLine truncates to the first verse, capped at 100 characters.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if runes := []rune(text); len(runes) > 100 {
		return string(runes[:100]) + "..."
	}
	return text
}

type unitDetailResponse struct {
	TehillimID   int    `json:"tehillimId"`
	PsalmNumber  int    `json:"psalmNumber"`
	PartNumber   int    `json:"partNumber"`
	DisplayTitle string `json:"displayTitle"`
	HebrewNumber string `json:"hebrewNumber"`
	HebrewText   string `json:"hebrewText"`
	EnglishText  string `json:"englishText"`
}

// Detail handles GET /api/tehillim/{tehillimId}
// Unit metadata plus both language texts in one response.
func (h *TextHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathInt(r, "tehillimId")
	if !ok || id < 1 || id > tehillim.UnitCount {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Tehillim ID must be between 1 and 171")
		return
	}

	unit, ok := tehillim.ByID(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tehillim not found")
		return
	}

	hebrewText, englishText := h.texts.UnitTexts(id)
	middleware.JSONResponse(w, http.StatusOK, unitDetailResponse{
		TehillimID:   id,
		PsalmNumber:  unit.EnglishNumber,
		PartNumber:   unit.PartNumber,
		DisplayTitle: tehillim.DisplayTitle(unit),
		HebrewNumber: unit.HebrewNumber,
		HebrewText:   hebrewText,
		EnglishText:  englishText,
	})
}

// NextPart handles GET /api/tehillim/next-part/{id}
// Walks the reading order: psalm 119 part by part, psalm 150 wraps to 1.
func (h *TextHandler) NextPart(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathInt(r, "id")
	if !ok || id < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	next, ok := tehillim.Next(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tehillim not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, next)
}
