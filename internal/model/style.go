package model

import "time"

// Style represents a garment style moving through the production pipeline.
type Style struct {
	ID        int64  `json:"id"`
	Merchant  string `json:"merchant"`
	Brand     string `json:"brand"`
	StyleNo   string `json:"style_no"`
	Garment   string `json:"garment"`
	Colour    string `json:"colour"`
	Stage     int    `json:"stage"`
	Active    bool   `json:"active"`
	PhotoMime string `json:"photo_mime,omitempty"`

	// Accessory notes, filled in by later workflow steps.
	AccBarcode  string `json:"acc_barcode,omitempty"`
	AccTrims    string `json:"acc_trims,omitempty"`
	AccWashcare string `json:"acc_washcare,omitempty"`
	AccOther    string `json:"acc_other,omitempty"`

	// Piece counts per production step.
	CutQty    *int `json:"cut_qty,omitempty"`
	StitchQty *int `json:"stitch_qty,omitempty"`
	FinishQty *int `json:"finish_qty,omitempty"`
	PackQty   *int `json:"pack_qty,omitempty"`
	TotalQty  *int `json:"total_qty,omitempty"`

	BulkETA      string `json:"bulk_eta,omitempty"`
	DispatchDate string `json:"dispatch_date,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// StageLabels is the fixed, ordered production pipeline. A style's Stage field
// is an index into this list. The last entry (Dispatch) is terminal: reaching
// it deactivates the style.
var StageLabels = [...]string{
	"Pre-fit",
	"Fit",
	"Bulk",
	"Bulk in-house",
	"FPT",
	"GPT",
	"PP",
	"Accessories in-house",
	"Cutting sheet",
	"Stitching",
	"Finishing",
	"Inline",
	"Packing",
	"Dispatch",
}

// StageDispatch is the terminal stage index.
const StageDispatch = len(StageLabels) - 1

// ValidStage reports whether stage is a valid index into StageLabels.
func ValidStage(stage int) bool {
	return stage >= 0 && stage < len(StageLabels)
}

// StageName returns the label for a stage index, or an empty string if the
// index is out of range.
func StageName(stage int) string {
	if !ValidStage(stage) {
		return ""
	}
	return StageLabels[stage]
}

// StageIndex resolves a label back to its index. Matching is exact.
// Returns -1 if the label is not in the pipeline.
func StageIndex(label string) int {
	for i, l := range StageLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// GarmentTypes are the preset choices offered by the add-style form.
// GarmentOther signals that the submitter typed a custom garment type.
var GarmentTypes = [...]string{
	"Kurta",
	"Shirt",
	"Dress",
	"Tunic",
	"Pant",
	"Jacket",
	"Skirts",
	"Blouses",
	"Jumpsuits",
	GarmentOther,
}

const GarmentOther = "Other"
