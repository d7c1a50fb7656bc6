/*
Package store implements an optional archive of encoded images backed by
SQLite.

Images are addressed by the SHA-1 of their encoded bytes so adding the same
image twice is harmless. Only the image is kept; neither the message nor the
key is ever written to the database.
*/
package store

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const minPrefix = 4

var (
	// ErrNotFound is returned when no image matches a checksum
	ErrNotFound = errors.New("store: image not found")
	// ErrAmbiguous is returned when a checksum prefix matches more than
	// one image
	ErrAmbiguous = errors.New("store: ambiguous checksum")

	errBadPrefix = fmt.Errorf("store: checksum must be at least %d hexadecimal characters", minPrefix)
)

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

// Entry is one archived image.
type Entry struct {
	ID      int64
	SHA1    string
	Format  string
	Width   int
	Data    []byte
	Created time.Time
}

// DB is the image archive.
type DB struct {
	db *sql.DB
}

// New opens, creating if necessary, the archive in file.
func New(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, format TEXT NOT NULL, width INTEGER NOT NULL, data BLOB NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the archive.
func (db *DB) Close() error {
	return db.db.Close()
}

// Checksum returns the checksum an image is archived under.
func Checksum(data []byte) string {
	sum := sha1.Sum(data)
	return fmt.Sprintf("%X", sum[:])
}

// Add archives the encoded image data and returns its checksum. Adding an
// image that is already archived returns the existing checksum.
func (db *DB) Add(data []byte, format string, width int) (string, error) {
	sha := Checksum(data)

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		if _, err := db.db.Exec("INSERT INTO image (sha1, format, width, data, created) VALUES (?, ?, ?, ?, ?)", sha, format, width, data, time.Now().Unix()); err != nil {
			return "", err
		}
		return sha, nil
	case nil:
		return sha, nil
	default:
		return "", err
	}
}

// Get returns the image whose checksum starts with prefix.
func (db *DB) Get(prefix string) (Entry, error) {
	if len(prefix) < minPrefix || strings.IndexFunc(prefix, func(r rune) bool { return !isHex(r) }) >= 0 {
		return Entry{}, errBadPrefix
	}

	rows, err := db.db.Query("SELECT id, sha1, format, width, data, created FROM image WHERE sha1 LIKE ? ORDER BY id LIMIT 2", strings.ToUpper(prefix)+"%")
	if err != nil {
		return Entry{}, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return Entry{}, err
	}

	switch len(entries) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return entries[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
	}
}

// List returns every archived image in the order they were added. The
// image data is not loaded.
func (db *DB) List() ([]Entry, error) {
	rows, err := db.db.Query("SELECT id, sha1, format, width, NULL, created FROM image ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Remove deletes the image whose checksum starts with prefix.
func (db *DB) Remove(prefix string) error {
	e, err := db.Get(prefix)
	if err != nil {
		return err
	}

	_, err = db.db.Exec("DELETE FROM image WHERE id = ?", e.ID)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.SHA1, &e.Format, &e.Width, &e.Data, &created); err != nil {
			return nil, err
		}
		e.Created = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
