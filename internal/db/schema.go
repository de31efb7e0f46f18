package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS merchants (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'merchant' CHECK (role IN ('admin', 'merchant')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_merchants_name_active
    ON merchants(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS styles (
    id            INTEGER PRIMARY KEY,
    merchant      TEXT NOT NULL,
    brand         TEXT NOT NULL,
    style_no      TEXT NOT NULL,
    garment       TEXT NOT NULL,
    colour        TEXT NOT NULL,
    stage         INTEGER NOT NULL DEFAULT 0 CHECK (stage BETWEEN 0 AND 13),
    active        INTEGER NOT NULL DEFAULT 1,
    photo         BLOB,
    photo_mime    TEXT,
    thumb         BLOB,
    acc_barcode   TEXT,
    acc_trims     TEXT,
    acc_washcare  TEXT,
    acc_other     TEXT,
    cut_qty       INTEGER,
    stitch_qty    INTEGER,
    finish_qty    INTEGER,
    pack_qty      INTEGER,
    total_qty     INTEGER,
    bulk_eta      TEXT,
    dispatch_date TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    archived_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_styles_merchant ON styles(merchant);

CREATE TABLE IF NOT EXISTS stage_events (
    id         INTEGER PRIMARY KEY,
    style_id   INTEGER NOT NULL REFERENCES styles(id),
    from_stage INTEGER NOT NULL,
    to_stage   INTEGER NOT NULL,
    changed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    changed_by INTEGER REFERENCES merchants(id)
);

CREATE INDEX IF NOT EXISTS idx_stage_events_style ON stage_events(style_id);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
