package models

import "time"

// Reading status constants
const (
	StatusReading   = "reading"
	StatusCompleted = "completed"
)

// Language constants
const (
	LanguageHebrew  = "hebrew"
	LanguageEnglish = "english"
)

// NameTTL is how long a dedication name stays active after submission.
const NameTTL = 18 * 24 * time.Hour

// Request types

type CompleteGlobalRequest struct {
	CurrentPerek int    `json:"currentPerek"`
	Language     string `json:"language"`
	CompletedBy  string `json:"completedBy,omitempty"`
}

type CreateNameRequest struct {
	HebrewName string `json:"hebrewName"`
	Reason     string `json:"reason"`
}

type CreateChainRequest struct {
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	DeviceID string `json:"deviceId,omitempty"`
}

type StartReadingRequest struct {
	DeviceID    string `json:"deviceId"`
	PsalmNumber int    `json:"psalmNumber,omitempty"`
}

type CompleteReadingRequest struct {
	DeviceID    string `json:"deviceId"`
	PsalmNumber int    `json:"psalmNumber"`
}

// Response types

type ProgressWithName struct {
	GlobalProgress
	AssignedName *TehillimName `json:"assignedName"`
}

type ChainDetailResponse struct {
	Chain
	Stats            ChainStatsResponse `json:"stats"`
	NextPsalm        *int               `json:"nextPsalm"`
	HasActiveReading bool               `json:"hasActiveReading"`
}

// ChainStatsResponse is the wire form of ChainStats; field names differ
// from the internal ones for compatibility with existing clients.
type ChainStatsResponse struct {
	TotalCompleted   int `json:"totalCompleted"`
	BooksCompleted   int `json:"booksCompleted"`
	CurrentlyReading int `json:"currentlyReading"`
	Available        int `json:"available"`
}

type CompleteReadingResponse struct {
	Reading ChainReading       `json:"reading"`
	Stats   ChainStatsResponse `json:"stats"`
}

type PsalmNumberResponse struct {
	PsalmNumber int `json:"psalmNumber"`
}

type TotalResponse struct {
	Total int `json:"total"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type PsalmTextResponse struct {
	Text     string `json:"text"`
	Perek    int    `json:"perek"`
	Language string `json:"language"`
}

// Domain types

type TehillimName struct {
	ID         string    `json:"id"`
	HebrewName string    `json:"hebrewName"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type GlobalProgress struct {
	CurrentPerek  int       `json:"currentPerek"`
	CurrentNameID *string   `json:"currentNameId"`
	LastUpdated   time.Time `json:"lastUpdated"`
	CompletedBy   *string   `json:"completedBy,omitempty"`
	Version       int       `json:"-"` // optimistic concurrency guard, never exposed
}

type Chain struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Reason          string    `json:"reason"`
	Slug            string    `json:"slug"`
	CreatorDeviceID *string   `json:"creatorDeviceId,omitempty"`
	IsActive        bool      `json:"isActive"`
	CurrentLap      int       `json:"-"` // lap bookkeeping, not part of the wire contract
	CreatedAt       time.Time `json:"createdAt"`
}

type ChainReading struct {
	ID          string     `json:"id"`
	ChainID     string     `json:"chainId"`
	PsalmNumber int        `json:"psalmNumber"`
	DeviceID    string     `json:"-"` // Never expose device tokens
	Status      string     `json:"status"`
	Lap         int        `json:"-"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type ChainStats struct {
	TotalSaid        int
	BooksCompleted   int
	CurrentlyReading int
	Available        int
}

// GlobalChainStats aggregates across every chain. Served from a short
// TTL cache, so values may lag by a few minutes.
type GlobalChainStats struct {
	TotalRead      int `json:"totalRead"`
	BooksCompleted int `json:"booksCompleted"`
	UniqueReaders  int `json:"uniqueReaders"`
}

// ErrorResponse carries the human-readable message in the error field.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WireStats converts internal chain stats to the response form.
func WireStats(s ChainStats) ChainStatsResponse {
	return ChainStatsResponse{
		TotalCompleted:   s.TotalSaid,
		BooksCompleted:   s.BooksCompleted,
		CurrentlyReading: s.CurrentlyReading,
		Available:        s.Available,
	}
}
