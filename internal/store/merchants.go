package store

import (
	"context"
	"database/sql"

	"github.com/garmenthq/stylebot/internal/model"
)

// CreateMerchant creates a new merchant account.
func CreateMerchant(ctx context.Context, db *sql.DB, name, passwordHash, role string) (*model.Merchant, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO merchants (name, password_hash, role) VALUES (?, ?, ?)`,
		name, passwordHash, role,
	)
	if err != nil {
		return nil, storagef("creating merchant", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storagef("getting merchant id", err)
	}

	return GetMerchant(ctx, db, id)
}

// GetMerchant returns a merchant by ID, or ErrNotFound.
func GetMerchant(ctx context.Context, db *sql.DB, id int64) (*model.Merchant, error) {
	m := &model.Merchant{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, role, created_at, deleted_at
		 FROM merchants WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.PasswordHash, &m.Role, &m.CreatedAt, &m.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storagef("getting merchant", err)
	}
	return m, nil
}

// GetMerchantByName returns a merchant by name, including soft-deleted ones
// so login can distinguish "gone" from "never existed". Returns ErrNotFound
// when no such merchant exists.
func GetMerchantByName(ctx context.Context, db *sql.DB, name string) (*model.Merchant, error) {
	m := &model.Merchant{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, role, created_at, deleted_at
		 FROM merchants WHERE name = ?`, name,
	).Scan(&m.ID, &m.Name, &m.PasswordHash, &m.Role, &m.CreatedAt, &m.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storagef("getting merchant by name", err)
	}
	return m, nil
}

// ListMerchants returns all non-deleted merchants.
func ListMerchants(ctx context.Context, db *sql.DB) ([]model.Merchant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, password_hash, role, created_at, deleted_at
		 FROM merchants WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, storagef("listing merchants", err)
	}
	defer rows.Close()

	var merchants []model.Merchant
	for rows.Next() {
		var m model.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.PasswordHash, &m.Role, &m.CreatedAt, &m.DeletedAt); err != nil {
			return nil, storagef("scanning merchant", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storagef("reading merchants", err)
	}
	return merchants, nil
}

// UpdateMerchantRole changes a merchant's role.
func UpdateMerchantRole(ctx context.Context, db *sql.DB, id int64, role string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE merchants SET role = ? WHERE id = ? AND deleted_at IS NULL`,
		role, id,
	)
	if err != nil {
		return storagef("updating merchant role", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMerchantPassword updates a merchant's password hash.
func UpdateMerchantPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE merchants SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return storagef("updating merchant password", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMerchant soft-deletes a merchant account. Their styles stay in the
// store; only the login goes away.
func DeleteMerchant(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE merchants SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return storagef("deleting merchant", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
