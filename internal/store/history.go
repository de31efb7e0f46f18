package store

import (
	"context"
	"database/sql"

	"github.com/garmenthq/stylebot/internal/model"
)

// GetStyleHistory returns a style's stage transitions, newest first.
func GetStyleHistory(ctx context.Context, db *sql.DB, styleID int64) ([]model.StageEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT e.id, e.style_id, e.from_stage, e.to_stage, e.changed_at, e.changed_by,
		        COALESCE(m.name, '') AS changed_by_name
		 FROM stage_events e
		 LEFT JOIN merchants m ON m.id = e.changed_by
		 WHERE e.style_id = ?
		 ORDER BY e.changed_at DESC, e.id DESC`, styleID,
	)
	if err != nil {
		return nil, storagef("getting style history", err)
	}
	defer rows.Close()

	return scanStageEvents(rows)
}

// ListStageEvents returns recent stage transitions across all styles, newest
// first, capped at limit.
func ListStageEvents(ctx context.Context, db *sql.DB, limit int) ([]model.StageEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT e.id, e.style_id, e.from_stage, e.to_stage, e.changed_at, e.changed_by,
		        COALESCE(m.name, '') AS changed_by_name
		 FROM stage_events e
		 LEFT JOIN merchants m ON m.id = e.changed_by
		 ORDER BY e.changed_at DESC, e.id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, storagef("listing stage events", err)
	}
	defer rows.Close()

	return scanStageEvents(rows)
}

func scanStageEvents(rows *sql.Rows) ([]model.StageEvent, error) {
	var events []model.StageEvent
	for rows.Next() {
		var e model.StageEvent
		if err := rows.Scan(&e.ID, &e.StyleID, &e.FromStage, &e.ToStage,
			&e.ChangedAt, &e.ChangedBy, &e.ChangedByName); err != nil {
			return nil, storagef("scanning stage event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storagef("reading stage events", err)
	}
	return events, nil
}
