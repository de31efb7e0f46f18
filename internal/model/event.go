package model

import "time"

// StageEvent records a single stage transition of a style.
type StageEvent struct {
	ID        int64     `json:"id"`
	StyleID   int64     `json:"style_id"`
	FromStage int       `json:"from_stage"`
	ToStage   int       `json:"to_stage"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy *int64    `json:"changed_by,omitempty"`

	// Joined field (not always populated).
	ChangedByName string `json:"changed_by_name,omitempty"`
}
