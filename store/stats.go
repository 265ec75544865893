// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"

	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

// ChainStats derives a chain's counters from its reading log.
func (s *Store) ChainStats(chainID string) (models.ChainStats, error) {
	lap, err := s.currentLap(chainID)
	if err != nil {
		return models.ChainStats{}, err
	}

	var stats models.ChainStats
	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM chain_reading WHERE chain_id = $1 AND status = 'completed'
	`, chainID).Scan(&stats.TotalSaid)
	if err != nil {
		return models.ChainStats{}, fmt.Errorf("failed to count completions: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM chain_reading WHERE chain_id = $1 AND status = 'reading'
	`, chainID).Scan(&stats.CurrentlyReading)
	if err != nil {
		return models.ChainStats{}, fmt.Errorf("failed to count active readings: %w", err)
	}

	var doneThisLap int
	err = s.db.QueryRow(`
		SELECT COUNT(DISTINCT psalm_number)
		FROM chain_reading
		WHERE chain_id = $1 AND lap = $2 AND status = 'completed'
	`, chainID, lap).Scan(&doneThisLap)
	if err != nil {
		return models.ChainStats{}, fmt.Errorf("failed to count lap completions: %w", err)
	}

	stats.BooksCompleted = stats.TotalSaid / tehillim.UnitCount
	stats.Available = tehillim.UnitCount - stats.CurrentlyReading - doneThisLap
	if stats.Available < 0 {
		stats.Available = 0
	}

	return stats, nil
}

// TotalCompleted counts completed readings across every chain.
func (s *Store) TotalCompleted() (int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM chain_reading WHERE status = 'completed'
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count total completions: %w", err)
	}
	return total, nil
}

// GlobalStats aggregates reading activity across all chains. Books are
// counted per chain so a chain three laps in contributes three.
func (s *Store) GlobalStats() (models.GlobalChainStats, error) {
	var g models.GlobalChainStats

	total, err := s.TotalCompleted()
	if err != nil {
		return models.GlobalChainStats{}, err
	}
	g.TotalRead = total

	rows, err := s.db.Query(`
		SELECT COUNT(*)
		FROM chain_reading
		WHERE status = 'completed'
		GROUP BY chain_id
	`)
	if err != nil {
		return models.GlobalChainStats{}, fmt.Errorf("failed to group completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var perChain int
		if err := rows.Scan(&perChain); err != nil {
			return models.GlobalChainStats{}, fmt.Errorf("failed to scan completion count: %w", err)
		}
		g.BooksCompleted += perChain / tehillim.UnitCount
	}
	if err := rows.Err(); err != nil {
		return models.GlobalChainStats{}, err
	}

	err = s.db.QueryRow(`
		SELECT COUNT(DISTINCT device_id) FROM chain_reading
	`).Scan(&g.UniqueReaders)
	if err != nil {
		return models.GlobalChainStats{}, fmt.Errorf("failed to count readers: %w", err)
	}

	return g, nil
}
