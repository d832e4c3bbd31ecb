package FlagService

import (
	"time"

	"gitlab.com/devpro_studio/Flargd/src/model/db"
)

const defaultPercentage = 100

// mergeFlag builds the record to store for a write. Only percentage and updatedAt
// change on an existing flag; updatedAt never moves backwards.
func mergeFlag(existing *db.Flag, owner, app, name string, percentage *int, now time.Time) *db.Flag {
	p := defaultPercentage
	if percentage != nil {
		p = *percentage
	}

	if existing == nil {
		return &db.Flag{
			Name:       name,
			App:        app,
			Owner:      owner,
			Percentage: p,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	merged := *existing
	merged.Percentage = p
	if now.After(existing.UpdatedAt) {
		merged.UpdatedAt = now
	}

	return &merged
}
