package bot

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/garmenthq/stylebot/internal/model"
	"github.com/garmenthq/stylebot/internal/store"
)

// SelectOption is one entry of a chat-modal dropdown.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StyleOptions returns the actor's active styles as select options for the
// update-stage modal, in the same creation order the listings use.
func StyleOptions(ctx context.Context, db *sql.DB, actor Actor) ([]SelectOption, error) {
	styles, err := store.ListMerchantStyles(ctx, db, actor.Merchant)
	if err != nil {
		return nil, err
	}

	opts := make([]SelectOption, 0, len(styles))
	for _, s := range styles {
		opts = append(opts, SelectOption{
			Label: fmt.Sprintf("%s·%s (%s)", s.Brand, s.StyleNo, model.StageName(s.Stage)),
			Value: strconv.FormatInt(s.ID, 10),
		})
	}
	return opts, nil
}

// StageOptions returns the full pipeline as select options.
func StageOptions() []SelectOption {
	opts := make([]SelectOption, 0, len(model.StageLabels))
	for i, label := range model.StageLabels {
		opts = append(opts, SelectOption{
			Label: fmt.Sprintf("%d · %s", i, label),
			Value: strconv.Itoa(i),
		})
	}
	return opts
}

// GarmentOptions returns the preset garment types for the add-style modal.
func GarmentOptions() []SelectOption {
	opts := make([]SelectOption, 0, len(model.GarmentTypes))
	for _, g := range model.GarmentTypes {
		opts = append(opts, SelectOption{Label: g, Value: g})
	}
	return opts
}
