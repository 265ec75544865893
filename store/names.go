// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ezrasnashim/tehillim-chain/ident"
	"github.com/ezrasnashim/tehillim-chain/models"
)

// CreateName stores a dedication name. It expires NameTTL (18 days)
// after submission.
func (s *Store) CreateName(hebrewName, reason string) (models.TehillimName, error) {
	now := time.Now()
	n := models.TehillimName{
		ID:         ident.NewID(),
		HebrewName: hebrewName,
		Reason:     reason,
		CreatedAt:  now,
		ExpiresAt:  now.Add(models.NameTTL),
	}

	_, err := s.db.Exec(`
		INSERT INTO tehillim_name (id, hebrew_name, reason, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, n.ID, n.HebrewName, n.Reason, n.CreatedAt, n.ExpiresAt)
	if err != nil {
		return models.TehillimName{}, fmt.Errorf("failed to insert name: %w", err)
	}

	return n, nil
}

// ActiveNames purges expired names, then returns the remainder.
func (s *Store) ActiveNames() ([]models.TehillimName, error) {
	if err := s.purgeExpiredNames(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, hebrew_name, reason, created_at, expires_at
		FROM tehillim_name
		WHERE expires_at > $1
	`, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query names: %w", err)
	}
	defer rows.Close()

	names := []models.TehillimName{}
	for rows.Next() {
		var n models.TehillimName
		if err := rows.Scan(&n.ID, &n.HebrewName, &n.Reason, &n.CreatedAt, &n.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}

// GetActiveName returns the name with the given id, or nil if it is
// missing or already expired.
func (s *Store) GetActiveName(id string) (*models.TehillimName, error) {
	var n models.TehillimName
	err := s.db.QueryRow(`
		SELECT id, hebrew_name, reason, created_at, expires_at
		FROM tehillim_name
		WHERE id = $1 AND expires_at > $2
	`, id, time.Now()).Scan(&n.ID, &n.HebrewName, &n.Reason, &n.CreatedAt, &n.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query name: %w", err)
	}
	return &n, nil
}

// RandomActiveName picks uniformly from the active names, nil if there
// are none.
func (s *Store) RandomActiveName() (*models.TehillimName, error) {
	names, err := s.ActiveNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return &names[rand.IntN(len(names))], nil
}

func (s *Store) purgeExpiredNames() error {
	_, err := s.db.Exec(`DELETE FROM tehillim_name WHERE expires_at < $1`, time.Now())
	if err != nil {
		return fmt.Errorf("failed to purge expired names: %w", err)
	}
	return nil
}
