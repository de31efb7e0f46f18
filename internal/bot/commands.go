// Package bot bridges chat-form submissions to the style store: it resolves
// form fields (custom garment types, stage labels), invokes the store, and
// renders plain-text responses for the chat layer to display.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

// Actor is the authenticated submitter of a command.
type Actor struct {
	ID       int64
	Merchant string
	Admin    bool
}

// maxListLines caps rendered listings so chat messages stay within platform
// limits.
const maxListLines = 50

// AddStyleForm carries the add-style modal fields.
type AddStyleForm struct {
	Brand         string `json:"brand"`
	StyleNo       string `json:"style_no"`
	Garment       string `json:"garment"`
	CustomGarment string `json:"custom_garment"`
	Colour        string `json:"colour"`
}

// ResolveGarment substitutes the typed custom garment type when the "Other"
// preset was selected, so the store only ever sees a concrete value. An empty
// custom field falls back to the sentinel itself.
func ResolveGarment(selected, custom string) string {
	if selected != model.GarmentOther {
		return selected
	}
	if v := strings.TrimSpace(custom); v != "" {
		return v
	}
	return model.GarmentOther
}

// AddStyle registers a new style for the actor and returns the confirmation
// text.
func AddStyle(ctx context.Context, db *sql.DB, actor Actor, form AddStyleForm) (string, error) {
	garment := ResolveGarment(form.Garment, form.CustomGarment)

	style, err := store.CreateStyle(ctx, db, actor.Merchant, form.Brand, form.StyleNo, garment, form.Colour)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Style saved!\n"+
		"• Brand: %s\n"+
		"• Style No.: %s\n"+
		"• Type: %s\n"+
		"• Colour: %s",
		style.Brand, style.StyleNo, style.Garment, style.Colour), nil
}

// UpdateStage moves one of the actor's styles to the referenced stage. The
// stage may be given as an index ("5") or a label ("GPT"). Styles belonging
// to other merchants are reported as not found unless the actor is an admin.
func UpdateStage(ctx context.Context, db *sql.DB, actor Actor, styleID int64, stageRef string) (string, error) {
	stage, err := ParseStage(stageRef)
	if err != nil {
		return "", err
	}

	style, err := store.GetStyle(ctx, db, styleID)
	if err != nil {
		return "", err
	}
	if style.Merchant != actor.Merchant && !actor.Admin {
		return "", store.ErrNotFound
	}

	updated, err := store.UpdateStyleStage(ctx, db, styleID, stage, &actor.ID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Stage updated: %s·%s is now *%s*",
		updated.Brand, updated.StyleNo, model.StageName(updated.Stage)), nil
}

// ParseStage resolves a stage reference, either a numeric index or an exact
// label, against the pipeline.
func ParseStage(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, &store.ValidationError{Msg: "stage is required"}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if !model.ValidStage(n) {
			return 0, &store.ValidationError{Msg: fmt.Sprintf("stage %d is out of range (0-%d)", n, model.StageDispatch)}
		}
		return n, nil
	}
	if i := model.StageIndex(ref); i >= 0 {
		return i, nil
	}
	return 0, &store.ValidationError{Msg: fmt.Sprintf("unknown stage %q", ref)}
}

// ListScope selects whose styles a listing covers.
type ListScope string

const (
	ScopeMine ListScope = "mine"
	ScopeAll  ListScope = "all"
)

// ListStyles renders the actor's active styles (or, for admins with ScopeAll,
// every style in the store) one line per record.
func ListStyles(ctx context.Context, db *sql.DB, actor Actor, scope ListScope) (string, error) {
	switch scope {
	case ScopeAll:
		if !actor.Admin {
			return "", &store.ValidationError{Msg: "only admins can list all styles"}
		}
		styles, err := store.ListAllStyles(ctx, db)
		if err != nil {
			return "", err
		}
		if len(styles) == 0 {
			return "No styles in the store yet.", nil
		}
		lines := make([]string, 0, len(styles))
		for _, s := range styles {
			lines = append(lines, fmt.Sprintf("%s: %s", s.Merchant, styleLine(s)))
		}
		return "*All styles:*\n" + strings.Join(capLines(lines), "\n"), nil

	case ScopeMine, "":
		styles, err := store.ListMerchantStyles(ctx, db, actor.Merchant)
		if err != nil {
			return "", err
		}
		if len(styles) == 0 {
			return "You don't have any active styles yet.", nil
		}
		lines := make([]string, 0, len(styles))
		for _, s := range styles {
			lines = append(lines, styleLine(s))
		}
		return "*Your active styles:*\n" + strings.Join(capLines(lines), "\n"), nil

	default:
		return "", &store.ValidationError{Msg: fmt.Sprintf("unknown scope %q", scope)}
	}
}

// styleLine renders one style as a single display line.
func styleLine(s model.Style) string {
	return fmt.Sprintf("*%s* • %s • %s • %s • %s",
		s.Brand, s.StyleNo, s.Garment, s.Colour, model.StageName(s.Stage))
}

func capLines(lines []string) []string {
	if len(lines) > maxListLines {
		return lines[:maxListLines]
	}
	return lines
}

// MorningUpdate applies a bulk stage submission for the actor's styles and
// returns a summary. Entries for styles that no longer exist, belong to
// someone else, or already sit at the submitted stage are skipped, matching
// the tolerant behaviour of the bulk form.
func MorningUpdate(ctx context.Context, db *sql.DB, actor Actor, updates map[int64]int) (string, error) {
	// Validate everything up front so a bad entry cannot leave the submission
	// half-applied.
	ids := make([]int64, 0, len(updates))
	for styleID, newStage := range updates {
		if !model.ValidStage(newStage) {
			return "", &store.ValidationError{Msg: fmt.Sprintf("stage %d is out of range (0-%d)", newStage, model.StageDispatch)}
		}
		ids = append(ids, styleID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var changes, dispatched []string

	for _, styleID := range ids {
		newStage := updates[styleID]
		style, err := store.GetStyle(ctx, db, styleID)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return "", err
		}
		if style.Merchant != actor.Merchant || style.Stage == newStage {
			continue
		}

		updated, err := store.UpdateStyleStage(ctx, db, styleID, newStage, &actor.ID)
		if err != nil {
			return "", err
		}

		label := fmt.Sprintf("%s·%s", updated.Brand, updated.StyleNo)
		changes = append(changes, fmt.Sprintf("%s → *%s*", label, model.StageName(updated.Stage)))
		if updated.Stage == model.StageDispatch {
			dispatched = append(dispatched, label)
		}
	}

	parts := []string{"*Morning update received!*"}
	if len(changes) > 0 {
		parts = append(parts, strings.Join(changes, "\n"))
	}
	if len(dispatched) > 0 {
		parts = append(parts, "_Dispatched:_ "+strings.Join(dispatched, ", "))
	}
	return strings.Join(parts, "\n"), nil
}
