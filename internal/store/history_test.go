package store

import (
	"context"
	"testing"

	"github.com/garmenthq/stylebot/internal/db"
)

func TestGetStyleHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	merchant, err := CreateMerchant(ctx, database, "acme", "hash", "merchant")
	if err != nil {
		t.Fatalf("creating merchant: %v", err)
	}

	style, err := CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}

	for _, stage := range []int{1, 4, 2} {
		if _, err := UpdateStyleStage(ctx, database, style.ID, stage, &merchant.ID); err != nil {
			t.Fatalf("updating to stage %d: %v", stage, err)
		}
	}
	// Re-submitting the current stage records nothing.
	if _, err := UpdateStyleStage(ctx, database, style.ID, 2, &merchant.ID); err != nil {
		t.Fatalf("re-submitting stage: %v", err)
	}

	events, err := GetStyleHistory(ctx, database, style.ID)
	if err != nil {
		t.Fatalf("getting history: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// Newest first: 4→2, 1→4, 0→1.
	wantFrom := []int{4, 1, 0}
	wantTo := []int{2, 4, 1}
	for i, e := range events {
		if e.FromStage != wantFrom[i] || e.ToStage != wantTo[i] {
			t.Errorf("event %d: %d→%d, want %d→%d", i, e.FromStage, e.ToStage, wantFrom[i], wantTo[i])
		}
		if e.StyleID != style.ID {
			t.Errorf("event %d: style_id = %d, want %d", i, e.StyleID, style.ID)
		}
		if e.ChangedByName != "acme" {
			t.Errorf("event %d: changed_by_name = %q, want acme", i, e.ChangedByName)
		}
	}
}

func TestListStageEvents(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	style, err := CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}
	for stage := 1; stage <= 5; stage++ {
		if _, err := UpdateStyleStage(ctx, database, style.ID, stage, nil); err != nil {
			t.Fatalf("updating to stage %d: %v", stage, err)
		}
	}

	events, err := ListStageEvents(ctx, database, 3)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].ToStage != 5 {
		t.Errorf("newest event to_stage = %d, want 5", events[0].ToStage)
	}
	// Anonymous updates join to an empty name.
	if events[0].ChangedBy != nil || events[0].ChangedByName != "" {
		t.Errorf("anonymous event carries a submitter: %+v", events[0])
	}

	// Non-positive limits fall back to the default cap.
	events, err = ListStageEvents(ctx, database, 0)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 5 {
		t.Errorf("got %d events, want 5", len(events))
	}
}
