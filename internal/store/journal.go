// Package store keeps a SQLite journal of ledger imports.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Entry is one committed import.
type Entry struct {
	ID         string
	FileName   string
	Format     string
	SHA256     string
	Rows       int
	Replaced   bool
	LedgerSize int
	ImportedAt time.Time
}

// NewEntry describes an import of raw read from fileName. The ID is a fresh
// UUID and ImportedAt is now.
func NewEntry(fileName, format string, raw []byte, rows int, replaced bool, ledgerSize int) Entry {
	return Entry{
		ID:         uuid.NewString(),
		FileName:   filepath.Base(fileName),
		Format:     format,
		SHA256:     Checksum(raw),
		Rows:       rows,
		Replaced:   replaced,
		LedgerSize: ledgerSize,
		ImportedAt: time.Now().UTC(),
	}
}

// Checksum returns the hex SHA-256 of raw.
func Checksum(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Journal provides SQLite-backed import history.
type Journal struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string, log zerolog.Logger) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Journal{db: db, log: log}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores a committed import.
func (j *Journal) Record(e Entry) error {
	replaced := 0
	if e.Replaced {
		replaced = 1
	}
	_, err := j.db.Exec(`INSERT INTO imports
		(id, file_name, format, sha256, rows, replaced, ledger_size, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FileName, e.Format, e.SHA256, e.Rows, replaced, e.LedgerSize,
		e.ImportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		j.log.Warn().Err(err).Str("file", e.FileName).Msg("journal write failed")
		return fmt.Errorf("recording import: %w", err)
	}
	j.log.Debug().Str("id", e.ID).Str("file", e.FileName).Int("rows", e.Rows).Msg("import journaled")
	return nil
}

// List returns the most recent imports, newest first. limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	query := `SELECT id, file_name, format, sha256, rows, replaced, ledger_size, imported_at
		FROM imports ORDER BY imported_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindByHash returns the latest import whose content hash matches.
func (j *Journal) FindByHash(sum string) (Entry, bool, error) {
	row := j.db.QueryRow(`SELECT id, file_name, format, sha256, rows, replaced, ledger_size, imported_at
		FROM imports WHERE sha256 = ? ORDER BY imported_at DESC, rowid DESC LIMIT 1`, sum)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Count returns the number of journaled imports.
func (j *Journal) Count() (int, error) {
	var count int
	err := j.db.QueryRow("SELECT COUNT(*) FROM imports").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var replaced int
	var importedAt string
	if err := s.Scan(&e.ID, &e.FileName, &e.Format, &e.SHA256, &e.Rows,
		&replaced, &e.LedgerSize, &importedAt); err != nil {
		return Entry{}, err
	}
	e.Replaced = replaced != 0
	e.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedAt)
	return e, nil
}
