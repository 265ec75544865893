// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sefaria

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

// DefaultBaseURL is the public Sefaria text API.
const DefaultBaseURL = "https://www.sefaria.org/api"

// Client fetches psalm text from the Sefaria API. It is the external
// text provider: psalm text is never persisted locally.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// textsResponse matches the subset of the Sefaria texts API we consume.
// Verse arrays come back as either []string or a bare string.
type textsResponse struct {
	He   json.RawMessage `json:"he"`
	Text json.RawMessage `json:"text"`
}

// UnitText returns the text of one addressable unit in the requested
// language, falling back to English when Hebrew is unavailable and to a
// static apology line when the upstream call fails entirely. Parts of
// psalm 119 are sliced out of the full psalm's verse array.
func (c *Client) UnitText(unitID int, language string) models.PsalmTextResponse {
	unit, ok := tehillim.ByID(unitID)
	if !ok {
		return fallback(unitID, language)
	}

	body, err := c.fetch(unit.EnglishNumber)
	if err != nil {
		return fallback(unitID, language)
	}

	text := joinUnit(unit, versesFor(body, language))
	if text == "" {
		return fallback(unitID, language)
	}

	return models.PsalmTextResponse{Text: text, Perek: unitID, Language: language}
}

// UnitTexts returns both languages of a unit from a single upstream
// fetch. Either side may be empty when the provider has no text for it
// or the call fails.
func (c *Client) UnitTexts(unitID int) (hebrewText, englishText string) {
	unit, ok := tehillim.ByID(unitID)
	if !ok {
		return "", ""
	}

	body, err := c.fetch(unit.EnglishNumber)
	if err != nil {
		return "", ""
	}

	return joinUnit(unit, decodeVerses(body.He)), joinUnit(unit, decodeVerses(body.Text))
}

func (c *Client) fetch(englishNumber int) (textsResponse, error) {
	url := fmt.Sprintf("%s/texts/Psalms.%d", c.baseURL, englishNumber)
	resp, err := c.http.Get(url)
	if err != nil {
		slog.Error("sefaria request failed", "url", url, "error", err)
		return textsResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("sefaria returned non-200", "url", url, "status", resp.StatusCode)
		return textsResponse{}, fmt.Errorf("sefaria returned status %d", resp.StatusCode)
	}

	var body textsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Error("failed to decode sefaria response", "error", err)
		return textsResponse{}, err
	}
	return body, nil
}

// joinUnit slices the unit's verses out of the full psalm (for parts of
// 119) and joins them into cleaned display text.
func joinUnit(unit tehillim.Unit, verses []string) string {
	if len(verses) == 0 {
		return ""
	}
	if unit.EnglishNumber == 119 {
		start, end := tehillim.Part119VerseRange(unit.PartNumber)
		if start > len(verses) {
			return ""
		}
		if end > len(verses) {
			end = len(verses)
		}
		verses = verses[start-1 : end]
	}
	return CleanText(strings.Join(verses, "\n"))
}

// versesFor picks the requested language's verse array, falling back to
// English when Hebrew is missing or empty.
func versesFor(body textsResponse, language string) []string {
	if language == models.LanguageHebrew {
		if vs := decodeVerses(body.He); len(vs) > 0 {
			return vs
		}
	}
	return decodeVerses(body.Text)
}

func decodeVerses(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}

var (
	brTags       = regexp.MustCompile(`(?i)<br\s*/?>`)
	smallTags    = regexp.MustCompile(`(?i)<small>(.*?)</small>`)
	supTags      = regexp.MustCompile(`(?i)<sup[^>]*>.*?</sup>`)
	italicTags   = regexp.MustCompile(`(?i)<i[^>]*>.*?</i>`)
	anyTags      = regexp.MustCompile(`<[^>]*>`)
	entities     = regexp.MustCompile(`(?i)&[a-z]+;`)
	parshaMarks  = regexp.MustCompile(`\{[פס]\}`)
	blankLines   = regexp.MustCompile(`\n\s*\n`)
	nbspEntities = regexp.MustCompile(`(?i)&nbsp;`)
)

// CleanText strips the HTML markup, footnotes, and Hebrew paragraph
// markers Sefaria embeds in its verse text.
func CleanText(text string) string {
	text = brTags.ReplaceAllString(text, "\n")
	text = smallTags.ReplaceAllString(text, "$1")
	text = supTags.ReplaceAllString(text, "")
	text = italicTags.ReplaceAllString(text, "")
	text = anyTags.ReplaceAllString(text, "")
	text = nbspEntities.ReplaceAllString(text, " ")
	text = entities.ReplaceAllString(text, "")
	text = parshaMarks.ReplaceAllString(text, "")
	text = blankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func fallback(unitID int, language string) models.PsalmTextResponse {
	return models.PsalmTextResponse{
		Text:     fmt.Sprintf("Tehillim %d - Unable to load from Sefaria API. Please try again later.", unitID),
		Perek:    unitID,
		Language: language,
	}
}
