// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
)

// progressRowID keys the singleton global rotation row.
const progressRowID = "global"

// advanceRetries bounds the optimistic-update loop in AdvanceProgress.
const advanceRetries = 5

// GetProgress returns the global rotation cursor, creating it at perek 1
// with a randomly assigned dedication name on first use.
func (s *Store) GetProgress() (models.GlobalProgress, error) {
	p, err := s.loadProgress()
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return models.GlobalProgress{}, fmt.Errorf("failed to query progress: %w", err)
	}

	name, err := s.RandomActiveName()
	if err != nil {
		return models.GlobalProgress{}, err
	}
	var nameID *string
	if name != nil {
		nameID = &name.ID
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO global_progress (id, current_perek, current_name_id, last_updated, completed_by, version)
		VALUES ($1, 1, $2, $3, NULL, 1)
	`, progressRowID, nameID, now)
	if err != nil {
		if isUniqueViolation(err) {
			// Another request initialized the row first.
			return s.loadProgress()
		}
		return models.GlobalProgress{}, fmt.Errorf("failed to initialize progress: %w", err)
	}

	return models.GlobalProgress{CurrentPerek: 1, CurrentNameID: nameID, LastUpdated: now, Version: 1}, nil
}

// GetProgressWithAssignedName resolves the progress row's dedication
// name. A dangling or expired reference is replaced with a fresh random
// name, persisted back onto the row.
func (s *Store) GetProgressWithAssignedName() (models.ProgressWithName, error) {
	p, err := s.GetProgress()
	if err != nil {
		return models.ProgressWithName{}, err
	}

	var name *models.TehillimName
	if p.CurrentNameID != nil {
		name, err = s.GetActiveName(*p.CurrentNameID)
		if err != nil {
			return models.ProgressWithName{}, err
		}
	}

	if name == nil {
		name, err = s.RandomActiveName()
		if err != nil {
			return models.ProgressWithName{}, err
		}
		var nameID *string
		if name != nil {
			nameID = &name.ID
		}
		if _, err := s.db.Exec(`
			UPDATE global_progress SET current_name_id = $1 WHERE id = $2
		`, nameID, progressRowID); err != nil {
			return models.ProgressWithName{}, fmt.Errorf("failed to reassign name: %w", err)
		}
		p.CurrentNameID = nameID
	}

	return models.ProgressWithName{GlobalProgress: p, AssignedName: name}, nil
}

// AdvanceProgress moves the cursor past the perek the caller just
// finished, wrapping 150 back to 1 and drawing a fresh dedication name
// for the next perek. The update is guarded by a version column; a
// losing concurrent writer re-reads and retries so no advance is
// silently overwritten.
func (s *Store) AdvanceProgress(currentPerek int, completedBy string) (models.GlobalProgress, error) {
	nextPerek := currentPerek + 1
	if currentPerek >= tehillim.BookPsalms {
		nextPerek = 1
	}

	var cb *string
	if completedBy != "" {
		cb = &completedBy
	}

	for attempt := 0; attempt < advanceRetries; attempt++ {
		p, err := s.GetProgress()
		if err != nil {
			return models.GlobalProgress{}, err
		}

		name, err := s.RandomActiveName()
		if err != nil {
			return models.GlobalProgress{}, err
		}
		var nameID *string
		if name != nil {
			nameID = &name.ID
		}

		now := time.Now()
		res, err := s.db.Exec(`
			UPDATE global_progress
			SET current_perek = $1, current_name_id = $2, last_updated = $3, completed_by = $4, version = version + 1
			WHERE id = $5 AND version = $6
		`, nextPerek, nameID, now, cb, progressRowID, p.Version)
		if err != nil {
			return models.GlobalProgress{}, fmt.Errorf("failed to advance progress: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return models.GlobalProgress{}, fmt.Errorf("failed to advance progress: %w", err)
		}
		if affected == 1 {
			return models.GlobalProgress{
				CurrentPerek:  nextPerek,
				CurrentNameID: nameID,
				LastUpdated:   now,
				CompletedBy:   cb,
				Version:       p.Version + 1,
			}, nil
		}
		// Lost the race; re-read and apply again.
	}

	return models.GlobalProgress{}, ErrContention
}

func (s *Store) loadProgress() (models.GlobalProgress, error) {
	var p models.GlobalProgress
	err := s.db.QueryRow(`
		SELECT current_perek, current_name_id, last_updated, completed_by, version
		FROM global_progress
		WHERE id = $1
	`, progressRowID).Scan(&p.CurrentPerek, &p.CurrentNameID, &p.LastUpdated, &p.CompletedBy, &p.Version)
	return p, err
}
