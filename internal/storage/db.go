package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"yardgate/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS manifests (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  groupName TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'received',
  customerId TEXT,
  jobNo TEXT,
  archiveRef TEXT,
  receivedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(groupName, hash)
);
CREATE INDEX IF NOT EXISTS idx_manifests_status ON manifests(status);
CREATE INDEX IF NOT EXISTS idx_manifests_jobNo ON manifests(jobNo);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  manifestId INTEGER,
  accepted INTEGER NOT NULL DEFAULT 0,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(manifestId) REFERENCES manifests(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SeenHash reports whether a manifest with this content hash was already
// accepted from the same group.
func (d *DB) SeenHash(groupName, hash string) (bool, error) {
	var id int
	err := d.conn.QueryRow(`SELECT id FROM manifests WHERE groupName = ? AND hash = ?`, groupName, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *DB) InsertManifest(filename, groupName, hash string) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO manifests (filename, groupName, hash)
VALUES (?, ?, ?)
ON CONFLICT(groupName, hash) DO UPDATE SET updatedAt = CURRENT_TIMESTAMP
`, filename, groupName, hash)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateManifestResult(id int64, status, customerID, jobNo, archiveRef string) error {
	_, err := d.conn.Exec(`
UPDATE manifests SET status = ?, customerId = ?, jobNo = ?, archiveRef = ?, updatedAt = CURRENT_TIMESTAMP
WHERE id = ?
`, status, customerID, jobNo, archiveRef, id)
	return err
}

func (d *DB) GetManifest(id int64) (*internal.ManifestRow, error) {
	var row internal.ManifestRow
	err := d.conn.QueryRow(`
SELECT id, filename, groupName, hash, status,
       COALESCE(customerId, ''), COALESCE(jobNo, ''), COALESCE(archiveRef, ''), receivedAt
FROM manifests WHERE id = ?
`, id).Scan(
		&row.ID, &row.Filename, &row.GroupName, &row.Hash, &row.Status,
		&row.CustomerID, &row.JobNo, &row.ArchiveRef, &row.ReceivedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListManifestsByStatus(status string, limit int) ([]internal.ManifestRow, error) {
	rows, err := d.conn.Query(`
SELECT id, filename, groupName, hash, status,
       COALESCE(customerId, ''), COALESCE(jobNo, ''), COALESCE(archiveRef, ''), receivedAt
FROM manifests WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ManifestRow
	for rows.Next() {
		var row internal.ManifestRow
		if err := rows.Scan(
			&row.ID, &row.Filename, &row.GroupName, &row.Hash, &row.Status,
			&row.CustomerID, &row.JobNo, &row.ArchiveRef, &row.ReceivedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, manifestID int64, accepted bool, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	acceptedInt := 0
	if accepted {
		acceptedInt = 1
	}
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, manifestId, accepted, countsJson) VALUES (?, ?, ?, ?)
`, traceID, manifestID, acceptedInt, string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
