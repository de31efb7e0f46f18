package bot

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/garmenthq/stylebot/internal/db"
	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

// newActor registers a merchant account and returns it as a command actor, so
// stage events can reference a real submitter.
func newActor(t *testing.T, database *sql.DB, name string, admin bool) Actor {
	t.Helper()
	role := model.RoleMerchant
	if admin {
		role = model.RoleAdmin
	}
	merchant, err := store.CreateMerchant(context.Background(), database, name, "hash", role)
	if err != nil {
		t.Fatalf("creating merchant %s: %v", name, err)
	}
	return Actor{ID: merchant.ID, Merchant: name, Admin: admin}
}

func TestResolveGarment(t *testing.T) {
	cases := []struct {
		selected, custom, want string
	}{
		{"Shirt", "", "Shirt"},
		{"Shirt", "Raincoat", "Shirt"},
		{"Other", "Raincoat", "Raincoat"},
		{"Other", "  Raincoat  ", "Raincoat"},
		{"Other", "", "Other"},
		{"Other", "   ", "Other"},
	}
	for _, c := range cases {
		if got := ResolveGarment(c.selected, c.custom); got != c.want {
			t.Errorf("ResolveGarment(%q, %q) = %q, want %q", c.selected, c.custom, got, c.want)
		}
	}
}

func TestAddStyle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	actor := newActor(t, database, "acme", false)

	text, err := AddStyle(ctx, database, actor, AddStyleForm{
		Brand:         "Zed",
		StyleNo:       "Z100",
		Garment:       "Other",
		CustomGarment: "Raincoat",
		Colour:        "Navy",
	})
	if err != nil {
		t.Fatalf("adding style: %v", err)
	}
	if !strings.Contains(text, "Style saved!") || !strings.Contains(text, "Raincoat") {
		t.Errorf("unexpected confirmation text: %q", text)
	}

	styles, err := store.ListMerchantStyles(ctx, database, "acme")
	if err != nil {
		t.Fatalf("listing styles: %v", err)
	}
	if len(styles) != 1 {
		t.Fatalf("got %d styles, want 1", len(styles))
	}
	s := styles[0]
	if s.Garment != "Raincoat" {
		t.Errorf("garment = %q, want custom type Raincoat", s.Garment)
	}
	if s.Stage != 0 || model.StageName(s.Stage) != "Pre-fit" {
		t.Errorf("new style at stage %d (%s), want 0 (Pre-fit)", s.Stage, model.StageName(s.Stage))
	}

	// Missing required field surfaces the store's validation message.
	_, err = AddStyle(ctx, database, actor, AddStyleForm{Brand: "Zed", StyleNo: "Z101", Garment: "Shirt"})
	if !store.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseStage(t *testing.T) {
	cases := []struct {
		ref     string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"13", 13, false},
		{"GPT", 5, false},
		{"Dispatch", 13, false},
		{" Fit ", 1, false},
		{"", 0, true},
		{"14", 0, true},
		{"-1", 0, true},
		{"gpt", 0, true},
		{"Shipping", 0, true},
	}
	for _, c := range cases {
		got, err := ParseStage(c.ref)
		if c.wantErr {
			if !store.IsValidation(err) {
				t.Errorf("ParseStage(%q): expected validation error, got %v", c.ref, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStage(%q): %v", c.ref, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStage(%q) = %d, want %d", c.ref, got, c.want)
		}
	}
}

func TestUpdateStage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	acme := newActor(t, database, "acme", false)
	globex := newActor(t, database, "globex", false)
	admin := newActor(t, database, "boss", true)

	style, err := store.CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}

	text, err := UpdateStage(ctx, database, acme, style.ID, "GPT")
	if err != nil {
		t.Fatalf("updating stage: %v", err)
	}
	if !strings.Contains(text, "*GPT*") {
		t.Errorf("unexpected response text: %q", text)
	}

	// Another merchant's style reads as not found, not as forbidden.
	if _, err := UpdateStage(ctx, database, globex, style.ID, "PP"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign style: expected ErrNotFound, got %v", err)
	}
	got, err := store.GetStyle(ctx, database, style.ID)
	if err != nil {
		t.Fatalf("getting style: %v", err)
	}
	if got.Stage != 5 {
		t.Errorf("foreign update went through: stage = %d", got.Stage)
	}

	// Admins can move anyone's styles.
	if _, err := UpdateStage(ctx, database, admin, style.ID, "PP"); err != nil {
		t.Errorf("admin update: %v", err)
	}

	if _, err := UpdateStage(ctx, database, acme, 9999, "Fit"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing style: expected ErrNotFound, got %v", err)
	}
	if _, err := UpdateStage(ctx, database, acme, style.ID, "Shipping"); !store.IsValidation(err) {
		t.Errorf("bad stage ref: expected validation error, got %v", err)
	}
}

func TestListStyles(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	acme := newActor(t, database, "acme", false)
	admin := newActor(t, database, "boss", true)

	text, err := ListStyles(ctx, database, acme, ScopeMine)
	if err != nil {
		t.Fatalf("listing empty: %v", err)
	}
	if !strings.Contains(text, "don't have any active styles") {
		t.Errorf("unexpected empty-state text: %q", text)
	}

	if _, err := store.CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy"); err != nil {
		t.Fatalf("creating style: %v", err)
	}
	if _, err := store.CreateStyle(ctx, database, "globex", "Yon", "Y1", "Dress", "Red"); err != nil {
		t.Fatalf("creating style: %v", err)
	}

	text, err = ListStyles(ctx, database, acme, ScopeMine)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if !strings.Contains(text, "*Zed* • Z100 • Shirt • Navy • Pre-fit") {
		t.Errorf("missing style line in %q", text)
	}
	if strings.Contains(text, "Yon") {
		t.Errorf("foreign style leaked into merchant listing: %q", text)
	}

	// The empty scope defaults to the caller's own styles.
	if _, err := ListStyles(ctx, database, acme, ""); err != nil {
		t.Errorf("default scope: %v", err)
	}

	if _, err := ListStyles(ctx, database, acme, ScopeAll); !store.IsValidation(err) {
		t.Errorf("non-admin all-scope: expected validation error, got %v", err)
	}

	text, err = ListStyles(ctx, database, admin, ScopeAll)
	if err != nil {
		t.Fatalf("admin listing: %v", err)
	}
	if !strings.Contains(text, "acme: ") || !strings.Contains(text, "globex: ") {
		t.Errorf("admin listing misses merchant prefixes: %q", text)
	}

	if _, err := ListStyles(ctx, database, acme, "theirs"); !store.IsValidation(err) {
		t.Errorf("unknown scope: expected validation error, got %v", err)
	}
}

func TestMorningUpdate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	acme := newActor(t, database, "acme", false)

	first, err := store.CreateStyle(ctx, database, "acme", "Zed", "Z100", "Shirt", "Navy")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}
	second, err := store.CreateStyle(ctx, database, "acme", "Zed", "Z200", "Dress", "Red")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}
	foreign, err := store.CreateStyle(ctx, database, "globex", "Yon", "Y1", "Pant", "Black")
	if err != nil {
		t.Fatalf("creating style: %v", err)
	}

	text, err := MorningUpdate(ctx, database, acme, map[int64]int{
		first.ID:   3,
		second.ID:  model.StageDispatch,
		foreign.ID: 7,    // someone else's, silently skipped
		9999:       2,    // gone, silently skipped
	})
	if err != nil {
		t.Fatalf("morning update: %v", err)
	}
	if !strings.Contains(text, "Morning update received!") {
		t.Errorf("missing summary header in %q", text)
	}
	if !strings.Contains(text, "Zed·Z100 → *Bulk in-house*") {
		t.Errorf("missing change line in %q", text)
	}
	if !strings.Contains(text, "_Dispatched:_ Zed·Z200") {
		t.Errorf("missing dispatch line in %q", text)
	}

	got, err := store.GetStyle(ctx, database, foreign.ID)
	if err != nil {
		t.Fatalf("getting foreign style: %v", err)
	}
	if got.Stage != 0 {
		t.Errorf("foreign style moved to stage %d", got.Stage)
	}

	// An out-of-range entry aborts the whole submission before any write.
	_, err = MorningUpdate(ctx, database, acme, map[int64]int{first.ID: 5, second.ID: 99})
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, err = store.GetStyle(ctx, database, first.ID)
	if err != nil {
		t.Fatalf("getting style: %v", err)
	}
	if got.Stage != 3 {
		t.Errorf("aborted submission still moved style to stage %d", got.Stage)
	}

	// Entries already at the submitted stage are skipped without an event.
	if _, err := MorningUpdate(ctx, database, acme, map[int64]int{first.ID: 3}); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	events, err := store.GetStyleHistory(ctx, database, first.ID)
	if err != nil {
		t.Fatalf("getting history: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("no-op submission recorded %d events, want 1", len(events))
	}
}
