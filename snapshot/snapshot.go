// Package snapshot keeps the descriptors displays held before they were
// overwritten, in a SQLite database.
//
// Store implements ddcedid.Recorder. Identical descriptors recorded twice
// for the same display and address are stored once, keyed by their SHA3-256
// fingerprint, and carry the time of the latest recording.
package snapshot

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite"

	"github.com/flavioheleno/ddcedid"
	"github.com/flavioheleno/ddcedid/descriptor"
)

// ErrNotFound is returned by Get and Latest when no snapshot matches.
var ErrNotFound = errors.New("snapshot: not found")

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS snapshots (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    display     TEXT    NOT NULL,
    address     INTEGER NOT NULL,
    taken       INTEGER NOT NULL, -- UnixNano
    fingerprint TEXT    NOT NULL,
    product_id  TEXT    NOT NULL DEFAULT '',
    name        TEXT    NOT NULL DEFAULT '',
    data        BLOB    NOT NULL,
    UNIQUE (display, address, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_display ON snapshots(display, taken);
`

// Snapshot is one recorded descriptor.
type Snapshot struct {
	ID          int64
	Display     string // ddcedid.Identity in its string form
	Address     byte
	Taken       time.Time
	Fingerprint string
	ProductID   string
	Name        string
	Data        *descriptor.Buffer
}

// Store is a snapshot database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ddcedid.Recorder = (*Store)(nil)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("snapshot: create directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: connect %s: %w", path, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("snapshot: create schema: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("snapshot: set schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("snapshot: read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("snapshot: unsupported schema version %d", version)
	}
	return nil
}

// Fingerprint returns the hex SHA3-256 digest of data.
func Fingerprint(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Record stores snapshot as the descriptor id held at addr. When the same
// bytes are already stored for that display and address, only their taken
// time moves to now.
func (s *Store) Record(id ddcedid.Identity, addr byte, snapshot *descriptor.Buffer) error {
	if snapshot.Empty() {
		return fmt.Errorf("snapshot: record %s: %w", id, descriptor.ErrEmpty)
	}

	data := snapshot.Bytes()
	productID, _ := snapshot.ProductID()
	name, _ := snapshot.Name()

	_, err := s.db.Exec(`
		INSERT INTO snapshots (display, address, taken, fingerprint, product_id, name, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (display, address, fingerprint) DO UPDATE SET taken = excluded.taken`,
		id.String(), int(addr), s.now().UnixNano(), Fingerprint(data), productID, name, data)
	if err != nil {
		return fmt.Errorf("snapshot: record %s: %w", id, err)
	}
	return nil
}

const selectColumns = "SELECT id, display, address, taken, fingerprint, product_id, name, data FROM snapshots"

// List returns the snapshots of display, newest first. An empty display
// lists every snapshot.
func (s *Store) List(display string) ([]Snapshot, error) {
	query := selectColumns + " ORDER BY taken DESC, id DESC"
	args := []any{}
	if display != "" {
		query = selectColumns + " WHERE display = ? ORDER BY taken DESC, id DESC"
		args = append(args, display)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	return out, nil
}

// Get returns the snapshot with the given id.
func (s *Store) Get(id int64) (Snapshot, error) {
	return scan(s.db.QueryRow(selectColumns+" WHERE id = ?", id))
}

// Latest returns the newest snapshot of display at addr.
func (s *Store) Latest(display string, addr byte) (Snapshot, error) {
	return scan(s.db.QueryRow(selectColumns+" WHERE display = ? AND address = ? ORDER BY taken DESC, id DESC LIMIT 1", display, int(addr)))
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Snapshot, error) {
	var (
		snap  Snapshot
		addr  int
		taken int64
		data  []byte
	)

	err := row.Scan(&snap.ID, &snap.Display, &addr, &taken, &snap.Fingerprint, &snap.ProductID, &snap.Name, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: scan: %w", err)
	}

	snap.Address = byte(addr)
	snap.Taken = time.Unix(0, taken)
	snap.Data = descriptor.New(data)
	return snap, nil
}
