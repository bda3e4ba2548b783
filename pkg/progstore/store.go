// Package progstore persists finalized bytecode programs in a SQLite
// database keyed by content hash. Storing the same program twice is a
// no-op, so the store doubles as a compilation cache.
package progstore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/ember/pkg/bytecode"
)

// ErrProgramNotFound indicates the requested program doesn't exist.
var ErrProgramNotFound = errors.New("program not found")

var log = commonlog.GetLogger("ember.progstore")

// Store is a content-addressed program store backed by SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open opens (creating if necessary) a program store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		hash TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores a program under its content hash and returns the hash.
func (s *Store) Put(p *bytecode.Program) ([32]byte, error) {
	data, err := bytecode.MarshalProgram(p)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encoding program: %w", err)
	}
	hash := sha256.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO programs (hash, data) VALUES (?, ?)",
		hex.EncodeToString(hash[:]), data,
	)
	if err != nil {
		return [32]byte{}, fmt.Errorf("saving program: %w", err)
	}

	log.Debugf("stored program %s (%d bytes)", hex.EncodeToString(hash[:8]), len(data))
	return hash, nil
}

// Get retrieves a program by content hash.
func (s *Store) Get(hash [32]byte) (*bytecode.Program, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM programs WHERE hash = ?",
		hex.EncodeToString(hash[:]),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("querying program: %w", err)
	}
	return bytecode.UnmarshalProgram(data)
}

// Has reports whether a program with the given hash is stored.
func (s *Store) Has(hash [32]byte) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM programs WHERE hash = ?",
		hex.EncodeToString(hash[:]),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying program: %w", err)
	}
	return true, nil
}

// Delete removes a program by content hash. Deleting a missing program is
// not an error.
func (s *Store) Delete(hash [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		"DELETE FROM programs WHERE hash = ?",
		hex.EncodeToString(hash[:]),
	); err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return nil
}

// Hashes returns the content hashes of all stored programs in hash order.
func (s *Store) Hashes() ([][32]byte, error) {
	rows, err := s.db.Query("SELECT hash FROM programs ORDER BY hash")
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var hashes [][32]byte
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning hash: %w", err)
		}
		raw, err := hex.DecodeString(key)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("malformed hash key %q", key)
		}
		var hash [32]byte
		copy(hash[:], raw)
		hashes = append(hashes, hash)
	}
	return hashes, rows.Err()
}
