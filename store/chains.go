// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezrasnashim/tehillim-chain/ident"
	"github.com/ezrasnashim/tehillim-chain/models"
)

// slugRetries bounds slug regeneration on collision. After that the last
// generated value is accepted; the UNIQUE constraint is the backstop.
const slugRetries = 5

const chainColumns = `id, name, reason, slug, creator_device_id, is_active, current_lap, created_at`

// CreateChain inserts a new chain with a slug derived from its name.
func (s *Store) CreateChain(name, reason, creatorDeviceID string) (models.Chain, error) {
	slug := ident.Slugify(name)
	for attempt := 0; attempt < slugRetries; attempt++ {
		_, err := s.GetChainBySlug(slug)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return models.Chain{}, err
		}
		slug = ident.Slugify(name)
	}

	var deviceID *string
	if creatorDeviceID != "" {
		deviceID = &creatorDeviceID
	}

	c := models.Chain{
		ID:              ident.NewID(),
		Name:            name,
		Reason:          reason,
		Slug:            slug,
		CreatorDeviceID: deviceID,
		IsActive:        true,
		CurrentLap:      1,
		CreatedAt:       time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO chain (id, name, reason, slug, creator_device_id, is_active, current_lap, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.Reason, c.Slug, c.CreatorDeviceID, c.IsActive, c.CurrentLap, c.CreatedAt)
	if err != nil {
		return models.Chain{}, fmt.Errorf("failed to insert chain: %w", err)
	}

	return c, nil
}

// GetChainBySlug returns ErrNotFound for an unknown slug.
func (s *Store) GetChainBySlug(slug string) (models.Chain, error) {
	row := s.db.QueryRow(`SELECT `+chainColumns+` FROM chain WHERE slug = $1`, slug)
	return scanChain(row)
}

// SearchChains does a best-effort substring match over name and reason.
func (s *Store) SearchChains(query string) ([]models.Chain, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := s.db.Query(`
		SELECT `+chainColumns+`
		FROM chain
		WHERE is_active = TRUE AND (LOWER(name) LIKE $1 OR LOWER(reason) LIKE $2)
		ORDER BY created_at DESC
		LIMIT 50
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search chains: %w", err)
	}
	defer rows.Close()

	chains := []models.Chain{}
	for rows.Next() {
		c, err := scanChain(rows)
		if err != nil {
			return nil, err
		}
		chains = append(chains, c)
	}

	return chains, rows.Err()
}

// RandomChain returns a uniformly random active chain.
func (s *Store) RandomChain() (models.Chain, error) {
	row := s.db.QueryRow(`
		SELECT ` + chainColumns + `
		FROM chain
		WHERE is_active = TRUE
		ORDER BY random()
		LIMIT 1
	`)
	return scanChain(row)
}

// ActiveChainCount counts chains that have not been deactivated.
func (s *Store) ActiveChainCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chain WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chains: %w", err)
	}
	return count, nil
}

// currentLap reads a chain's lap counter, ErrNotFound for unknown ids.
func (s *Store) currentLap(chainID string) (int, error) {
	var lap int
	err := s.db.QueryRow(`SELECT current_lap FROM chain WHERE id = $1`, chainID).Scan(&lap)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query chain lap: %w", err)
	}
	return lap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChain(row rowScanner) (models.Chain, error) {
	var c models.Chain
	err := row.Scan(&c.ID, &c.Name, &c.Reason, &c.Slug, &c.CreatorDeviceID, &c.IsActive, &c.CurrentLap, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Chain{}, ErrNotFound
	}
	if err != nil {
		return models.Chain{}, fmt.Errorf("failed to scan chain: %w", err)
	}
	return c, nil
}
