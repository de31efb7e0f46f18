package bot

import (
	"context"
	"strconv"
	"testing"

	"github.com/garmenthq/stylebot/internal/db"
	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

func TestStyleOptions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	acme := newActor(t, database, "acme", false)

	style, err := store.CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}
	if _, err := store.CreateStyle(ctx, database, "globex", "Yon", "Y1", "Dress", "Red"); err != nil {
		t.Fatalf("creating style: %v", err)
	}

	opts, err := StyleOptions(ctx, database, acme)
	if err != nil {
		t.Fatalf("building style options: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("got %d options, want 1", len(opts))
	}
	if opts[0].Label != "Zed·Z100 (Pre-fit)" {
		t.Errorf("label = %q", opts[0].Label)
	}
	if opts[0].Value != strconv.FormatInt(style.ID, 10) {
		t.Errorf("value = %q, want style id", opts[0].Value)
	}
}

func TestStageOptions(t *testing.T) {
	opts := StageOptions()
	if len(opts) != len(model.StageLabels) {
		t.Fatalf("got %d options, want %d", len(opts), len(model.StageLabels))
	}
	if opts[0].Label != "0 · Pre-fit" || opts[0].Value != "0" {
		t.Errorf("first option = %+v", opts[0])
	}
	last := opts[len(opts)-1]
	if last.Label != "13 · Dispatch" || last.Value != "13" {
		t.Errorf("last option = %+v", last)
	}
}

func TestGarmentOptions(t *testing.T) {
	opts := GarmentOptions()
	if len(opts) != len(model.GarmentTypes) {
		t.Fatalf("got %d options, want %d", len(opts), len(model.GarmentTypes))
	}
	if opts[len(opts)-1].Value != model.GarmentOther {
		t.Errorf("last option should be the custom-type sentinel, got %+v", opts[len(opts)-1])
	}
}
