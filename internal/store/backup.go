package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backup describes a snapshot artifact on disk.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

const backupExt = ".sqlite3"

// Snapshot writes a consistent point-in-time copy of the whole store into dir
// and returns a handle to the artifact. VACUUM INTO runs inside a read
// transaction, so a snapshot taken while writes are in flight sees either all
// of a write or none of it, without blocking readers.
func Snapshot(ctx context.Context, db *sql.DB, dir string) (*Backup, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storagef("creating backup directory", err)
	}

	now := time.Now().UTC()
	// Timestamp plus a random suffix so repeated snapshots in the same second
	// don't collide (VACUUM INTO refuses to overwrite).
	name := "styles_" + now.Format("20060102T150405") + "_" + uuid.NewString()[:8] + backupExt
	path := filepath.Join(dir, name)

	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return nil, storagef("writing snapshot", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, storagef("checking snapshot", err)
	}

	return &Backup{Name: name, Path: path, Size: info.Size(), CreatedAt: now}, nil
}

// ListBackups returns the snapshot artifacts in dir, newest first. A missing
// directory yields an empty list, not an error.
func ListBackups(dir string) ([]Backup, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storagef("reading backup directory", err)
	}

	var backups []Backup
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Name:      entry.Name(),
			Path:      filepath.Join(dir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}
