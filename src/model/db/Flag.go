package db

import (
	"encoding/json"
	"time"
)

// TimeLayout is ISO-8601 in UTC with milliseconds, e.g. 2024-05-01T10:00:00.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

type Flag struct {
	Name       string    `json:"name"`
	App        string    `json:"app"`
	Owner      string    `json:"owner"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (f Flag) MarshalJSON() ([]byte, error) {
	type flag Flag
	return json.Marshal(struct {
		flag
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}{
		flag:      flag(f),
		CreatedAt: f.CreatedAt.UTC().Format(TimeLayout),
		UpdatedAt: f.UpdatedAt.UTC().Format(TimeLayout),
	})
}
