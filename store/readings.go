// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ezrasnashim/tehillim-chain/ident"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

// claimRetries bounds re-picking when a random claim loses the
// exclusivity race to another device.
const claimRetries = 3

// ActiveReadingForDevice returns the psalm the device is currently
// reading in this chain, or 0 if it has no active claim. Lets a
// returning device resume instead of being handed a new unit.
func (s *Store) ActiveReadingForDevice(chainID, deviceID string) (int, error) {
	var psalm int
	err := s.db.QueryRow(`
		SELECT psalm_number
		FROM chain_reading
		WHERE chain_id = $1 AND device_id = $2 AND status = 'reading'
		ORDER BY started_at DESC
		LIMIT 1
	`, chainID, deviceID).Scan(&psalm)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query active reading: %w", err)
	}
	return psalm, nil
}

// RandomAvailablePsalm picks a uniformly random unit that is neither
// being read nor completed in the chain's current lap. excludePsalm (if
// nonzero) is never returned, even if it is the only candidate.
// Returns 0 when nothing is available.
func (s *Store) RandomAvailablePsalm(chainID string, excludePsalm int) (int, error) {
	lap, err := s.currentLap(chainID)
	if err != nil {
		return 0, err
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT psalm_number
		FROM chain_reading
		WHERE chain_id = $1
		  AND (status = 'reading' OR (status = 'completed' AND lap = $2))
	`, chainID, lap)
	if err != nil {
		return 0, fmt.Errorf("failed to query taken psalms: %w", err)
	}
	defer rows.Close()

	taken := make(map[int]bool, tehillim.UnitCount)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan psalm number: %w", err)
		}
		taken[n] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	candidates := make([]int, 0, tehillim.UnitCount)
	for n := 1; n <= tehillim.UnitCount; n++ {
		if !taken[n] && n != excludePsalm {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}
	return candidates[rand.IntN(len(candidates))], nil
}

// StartReading claims a specific psalm for a device. The partial unique
// index on (chain_id, psalm_number) for active claims makes the insert
// fail with ErrPsalmTaken when another device got there first.
func (s *Store) StartReading(chainID string, psalm int, deviceID string) (models.ChainReading, error) {
	lap, err := s.currentLap(chainID)
	if err != nil {
		return models.ChainReading{}, err
	}

	r := models.ChainReading{
		ID:          ident.NewID(),
		ChainID:     chainID,
		PsalmNumber: psalm,
		DeviceID:    deviceID,
		Status:      models.StatusReading,
		Lap:         lap,
		StartedAt:   time.Now(),
	}

	_, err = s.db.Exec(`
		INSERT INTO chain_reading (id, chain_id, psalm_number, device_id, status, lap, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.ChainID, r.PsalmNumber, r.DeviceID, r.Status, r.Lap, r.StartedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ChainReading{}, ErrPsalmTaken
		}
		return models.ChainReading{}, fmt.Errorf("failed to insert reading: %w", err)
	}

	return r, nil
}

// StartRandomReading claims a random available psalm, re-picking a few
// times if concurrent claimers keep winning the same unit.
func (s *Store) StartRandomReading(chainID, deviceID string, excludePsalm int) (models.ChainReading, error) {
	for attempt := 0; attempt < claimRetries; attempt++ {
		psalm, err := s.RandomAvailablePsalm(chainID, excludePsalm)
		if err != nil {
			return models.ChainReading{}, err
		}
		if psalm == 0 {
			return models.ChainReading{}, ErrNoPsalmsAvailable
		}

		r, err := s.StartReading(chainID, psalm, deviceID)
		if errors.Is(err, ErrPsalmTaken) {
			continue
		}
		return r, err
	}
	return models.ChainReading{}, ErrNoPsalmsAvailable
}

// CompleteReading flips the device's active claim to completed. The
// status-guarded UPDATE is the only write path, so a crashed client
// retrying completion gets ErrNotFound rather than a double count.
// The returned bool reports whether this completion finished the lap
// (all 171 units said), in which case the chain's lap counter has been
// advanced and every unit is available again.
func (s *Store) CompleteReading(chainID string, psalm int, deviceID string) (models.ChainReading, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var r models.ChainReading
	err = tx.QueryRow(`
		SELECT id, lap, started_at
		FROM chain_reading
		WHERE chain_id = $1 AND psalm_number = $2 AND device_id = $3 AND status = 'reading'
		ORDER BY started_at DESC
		LIMIT 1
	`, chainID, psalm, deviceID).Scan(&r.ID, &r.Lap, &r.StartedAt)
	if err == sql.ErrNoRows {
		return models.ChainReading{}, false, ErrNotFound
	}
	if err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to query reading: %w", err)
	}

	now := time.Now()
	res, err := tx.Exec(`
		UPDATE chain_reading
		SET status = 'completed', completed_at = $1
		WHERE id = $2 AND status = 'reading'
	`, now, r.ID)
	if err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to complete reading: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to complete reading: %w", err)
	}
	if affected == 0 {
		return models.ChainReading{}, false, ErrNotFound
	}

	var doneThisLap int
	err = tx.QueryRow(`
		SELECT COUNT(DISTINCT psalm_number)
		FROM chain_reading
		WHERE chain_id = $1 AND lap = $2 AND status = 'completed'
	`, chainID, r.Lap).Scan(&doneThisLap)
	if err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to count lap completions: %w", err)
	}

	lapDone := doneThisLap >= tehillim.UnitCount
	if lapDone {
		// Guarded bump: a concurrent completion of the same final unit
		// rolls the lap over exactly once.
		res, err := tx.Exec(`
			UPDATE chain SET current_lap = current_lap + 1
			WHERE id = $1 AND current_lap = $2
		`, chainID, r.Lap)
		if err != nil {
			return models.ChainReading{}, false, fmt.Errorf("failed to roll over lap: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			lapDone = false
		}
	}

	if err := tx.Commit(); err != nil {
		return models.ChainReading{}, false, fmt.Errorf("failed to commit completion: %w", err)
	}

	r.ChainID = chainID
	r.PsalmNumber = psalm
	r.DeviceID = deviceID
	r.Status = models.StatusCompleted
	r.CompletedAt = &now
	return r, lapDone, nil
}
