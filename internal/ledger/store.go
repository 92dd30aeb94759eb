package ledger

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/illarion/ledgerlock/internal/crypto"
)

// CipherPageSize is the SQLCipher page size in bytes
const CipherPageSize = 4096

var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)

// Store is the page-encrypted relational ledger. Sensitive text columns
// additionally hold crypto.Encryptor tokens, so plaintext never touches
// the persisted medium.
type Store struct {
	db   *sql.DB
	path string
	enc  *crypto.Encryptor
}

// Open opens or creates the ledger file with the given 32-byte key and
// ensures the schema exists. A wrong key or a corrupted file fails the
// initial probe and no handle is returned.
func Open(path string, key []byte) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma_key=x'%s'&_pragma_cipher_page_size=%d",
		path, hex.EncodeToString(key), CipherPageSize)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Probe: any read fails here when the key is wrong or the file is
	// not a valid SQLCipher database.
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
		enc:  crypto.NewEncryptor(key),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the store. The encryption key is owned by the session
// and cleared there.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the ledger file path
func (s *Store) Path() string {
	return s.path
}

// initSchema creates tables and indexes. Schema invariants are enforced
// at write time; there is no separate migration concept.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		description_encrypted TEXT NOT NULL,
		amount REAL NOT NULL,
		date TEXT NOT NULL,
		category_encrypted TEXT NOT NULL,
		account TEXT NOT NULL,
		hash TEXT NOT NULL, -- for duplicate detection
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_hash ON transactions(hash);
	CREATE INDEX IF NOT EXISTS idx_transactions_amount ON transactions(amount);

	CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		category_encrypted TEXT NOT NULL,
		amount REAL NOT NULL,
		spent REAL DEFAULT 0.0,
		period TEXT NOT NULL DEFAULT 'monthly',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name_encrypted TEXT NOT NULL,
		color TEXT,
		icon TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name_encrypted TEXT NOT NULL,
		type TEXT NOT NULL,
		balance REAL DEFAULT 0.0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Backup produces a consistent point-in-time copy of the encrypted
// store at the given path, plus the meta sidecar if present, so the
// artifact is openable by the same unlock flow.
func (s *Store) Backup(path string) error {
	// VACUUM INTO takes no bind parameters; quote the path literal.
	quoted := strings.ReplaceAll(path, "'", "''")
	if _, err := s.db.Exec(fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		return fmt.Errorf("failed to back up store: %w", err)
	}
	return copySidecar(s.path+".meta", path+".meta")
}

// VerifyIntegrity runs the storage engine's structural consistency
// check. Any non-"ok" result is a corruption signal.
func (s *Store) VerifyIntegrity() (bool, error) {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return false, fmt.Errorf("failed to run integrity check: %w", err)
	}
	if result != "ok" {
		return false, ErrIntegrityCheckFailed
	}
	return true, nil
}

// copySidecar copies the meta sidecar next to a backup. Missing sidecar
// is not an error so bare-store copies still work.
func copySidecar(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open sidecar: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create sidecar copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy sidecar: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
