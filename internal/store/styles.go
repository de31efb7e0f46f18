package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/garmenthq/stylebot/internal/model"
)

const styleColumns = `id, merchant, brand, style_no, garment, colour, stage, active,
	photo_mime, acc_barcode, acc_trims, acc_washcare, acc_other,
	cut_qty, stitch_qty, finish_qty, pack_qty, total_qty,
	bulk_eta, dispatch_date, created_at, archived_at`

// CreateStyle registers a new style at the first pipeline stage. All five
// fields are required; the garment value must already be resolved (a custom
// type instead of the "Other" sentinel) by the caller.
func CreateStyle(ctx context.Context, db *sql.DB, merchant, brand, styleNo, garment, colour string) (*model.Style, error) {
	for _, f := range []struct{ name, value string }{
		{"merchant", merchant},
		{"brand", brand},
		{"style number", styleNo},
		{"garment type", garment},
		{"colour", colour},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, invalidf("%s is required", f.name)
		}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO styles (merchant, brand, style_no, garment, colour) VALUES (?, ?, ?, ?, ?)`,
		merchant, brand, styleNo, garment, colour,
	)
	if err != nil {
		return nil, storagef("creating style", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storagef("getting style id", err)
	}

	return GetStyle(ctx, db, id)
}

// GetStyle returns a style by ID, or ErrNotFound.
func GetStyle(ctx context.Context, db *sql.DB, id int64) (*model.Style, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+styleColumns+` FROM styles WHERE id = ?`, id,
	)
	style, err := scanStyle(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storagef("getting style", err)
	}
	return style, nil
}

// ListMerchantStyles returns a merchant's in-progress styles (active and not
// archived), oldest first. The order is stable so repeated listings and the
// update-stage select options line up.
func ListMerchantStyles(ctx context.Context, db *sql.DB, merchant string) ([]model.Style, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+styleColumns+` FROM styles
		 WHERE merchant = ? AND active = 1 AND archived_at IS NULL
		 ORDER BY created_at, id`, merchant,
	)
	if err != nil {
		return nil, storagef("listing merchant styles", err)
	}
	defer rows.Close()

	return scanStyles(rows)
}

// ListAllStyles returns every style regardless of merchant, activity, or
// archival, in the same creation order as ListMerchantStyles.
func ListAllStyles(ctx context.Context, db *sql.DB) ([]model.Style, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+styleColumns+` FROM styles ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, storagef("listing styles", err)
	}
	defer rows.Close()

	return scanStyles(rows)
}

// UpdateStyleStage moves a style to the given stage and re-derives the active
// flag: a style is active exactly while its stage is before Dispatch. Arbitrary
// jumps, including regression, are allowed; regressing a dispatched style
// re-activates it. The read-modify-write runs in one transaction so concurrent
// updates cannot leave stage and active out of step, and each actual change is
// recorded as a stage event.
func UpdateStyleStage(ctx context.Context, db *sql.DB, id int64, newStage int, changedBy *int64) (*model.Style, error) {
	if !model.ValidStage(newStage) {
		return nil, invalidf("stage %d is out of range (0-%d)", newStage, model.StageDispatch)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storagef("beginning transaction", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT stage FROM styles WHERE id = ?`, id,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storagef("reading current stage", err)
	}

	active := 0
	if newStage != model.StageDispatch {
		active = 1
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE styles SET stage = ?, active = ? WHERE id = ?`,
		newStage, active, id,
	)
	if err != nil {
		return nil, storagef("updating stage", err)
	}

	if current != newStage {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stage_events (style_id, from_stage, to_stage, changed_by) VALUES (?, ?, ?, ?)`,
			id, current, newStage, changedBy,
		)
		if err != nil {
			return nil, storagef("recording stage event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storagef("committing stage update", err)
	}

	return GetStyle(ctx, db, id)
}

// QuantityUpdate carries piece counts for a partial update. Nil fields are
// left untouched.
type QuantityUpdate struct {
	Cut    *int
	Stitch *int
	Finish *int
	Pack   *int
	Total  *int
}

// UpdateStyleQuantities updates the provided piece counts of a style.
func UpdateStyleQuantities(ctx context.Context, db *sql.DB, id int64, q QuantityUpdate) (*model.Style, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	for _, f := range []struct {
		column string
		value  *int
	}{
		{"cut_qty", q.Cut},
		{"stitch_qty", q.Stitch},
		{"finish_qty", q.Finish},
		{"pack_qty", q.Pack},
		{"total_qty", q.Total},
	} {
		if f.value == nil {
			continue
		}
		if *f.value < 0 {
			return nil, invalidf("%s cannot be negative", f.column)
		}
		sets = append(sets, f.column+" = ?")
		args = append(args, *f.value)
	}
	if len(sets) == 0 {
		return nil, invalidf("no quantities provided")
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx,
		`UPDATE styles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, storagef("updating quantities", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetStyle(ctx, db, id)
}

// AccessoryUpdate carries accessory notes for a partial update. Nil fields
// are left untouched.
type AccessoryUpdate struct {
	Barcode  *string
	Trims    *string
	Washcare *string
	Other    *string
}

// UpdateStyleAccessories updates the provided accessory notes of a style.
func UpdateStyleAccessories(ctx context.Context, db *sql.DB, id int64, a AccessoryUpdate) (*model.Style, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"acc_barcode", a.Barcode},
		{"acc_trims", a.Trims},
		{"acc_washcare", a.Washcare},
		{"acc_other", a.Other},
	} {
		if f.value != nil {
			sets = append(sets, f.column+" = ?")
			args = append(args, *f.value)
		}
	}
	if len(sets) == 0 {
		return nil, invalidf("no accessory fields provided")
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx,
		`UPDATE styles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, storagef("updating accessories", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetStyle(ctx, db, id)
}

// ArchiveStyle hides a style from the working views without deleting it or
// touching the stage-derived active flag.
func ArchiveStyle(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE styles SET archived_at = CURRENT_TIMESTAMP WHERE id = ? AND archived_at IS NULL`,
		id,
	)
	if err != nil {
		return storagef("archiving style", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RestoreStyle brings an archived style back into the working views.
func RestoreStyle(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE styles SET archived_at = NULL WHERE id = ? AND archived_at IS NOT NULL`,
		id,
	)
	if err != nil {
		return storagef("restoring style", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStylePhoto stores a processed photo and its thumbnail.
func SetStylePhoto(ctx context.Context, db *sql.DB, id int64, photo, thumb []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE styles SET photo = ?, thumb = ?, photo_mime = ? WHERE id = ?`,
		photo, thumb, mime, id,
	)
	if err != nil {
		return storagef("setting style photo", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStylePhoto returns a style's photo data and MIME type. The data is nil
// when no photo has been uploaded.
func GetStylePhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM styles WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", storagef("getting style photo", err)
	}
	return photo, mime.String, nil
}

// GetStyleThumb returns a style's thumbnail. The data is nil when no photo
// has been uploaded.
func GetStyleThumb(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var thumb []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT thumb, photo_mime FROM styles WHERE id = ?`, id,
	).Scan(&thumb, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", storagef("getting style thumbnail", err)
	}
	return thumb, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStyle(row rowScanner) (*model.Style, error) {
	s := &model.Style{}
	var photoMime, accBarcode, accTrims, accWashcare, accOther sql.NullString
	var bulkETA, dispatchDate sql.NullString
	var cutQty, stitchQty, finishQty, packQty, totalQty sql.NullInt64

	err := row.Scan(
		&s.ID, &s.Merchant, &s.Brand, &s.StyleNo, &s.Garment, &s.Colour, &s.Stage, &s.Active,
		&photoMime, &accBarcode, &accTrims, &accWashcare, &accOther,
		&cutQty, &stitchQty, &finishQty, &packQty, &totalQty,
		&bulkETA, &dispatchDate, &s.CreatedAt, &s.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	s.PhotoMime = photoMime.String
	s.AccBarcode = accBarcode.String
	s.AccTrims = accTrims.String
	s.AccWashcare = accWashcare.String
	s.AccOther = accOther.String
	s.BulkETA = bulkETA.String
	s.DispatchDate = dispatchDate.String
	s.CutQty = nullableInt(cutQty)
	s.StitchQty = nullableInt(stitchQty)
	s.FinishQty = nullableInt(finishQty)
	s.PackQty = nullableInt(packQty)
	s.TotalQty = nullableInt(totalQty)
	return s, nil
}

func scanStyles(rows *sql.Rows) ([]model.Style, error) {
	var styles []model.Style
	for rows.Next() {
		s, err := scanStyle(rows)
		if err != nil {
			return nil, storagef("scanning style", err)
		}
		styles = append(styles, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, storagef("reading styles", err)
	}
	return styles, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
