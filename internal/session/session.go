package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/illarion/ledgerlock/internal/analytics"
	"github.com/illarion/ledgerlock/internal/crypto"
	"github.com/illarion/ledgerlock/internal/ledger"
	"github.com/illarion/ledgerlock/internal/meta"
)

const (
	// StoreFile is the page-encrypted ledger file name
	StoreFile = "ledger.db"
	// MetaSuffix names the sidecar next to the store file
	MetaSuffix = ".meta"
)

var (
	ErrNotInitialized         = errors.New("ledgerlock not initialized")
	ErrAlreadyExists          = errors.New("store already exists")
	ErrLocked                 = errors.New("store is locked")
	ErrWrongPasswordOrCorrupt = errors.New("wrong password or corrupted store")
)

// Session owns the unlocked store handle and the in-memory key. It
// starts Locked; at most one unlocked handle exists per session, and
// one mutex serializes every unlock/lock/state transition so no
// operation can observe a half-cleared handle.
type Session struct {
	mu        sync.Mutex
	storePath string
	metaPath  string
	store     *ledger.Store
	key       []byte
}

// New creates a locked session for the store in dir
func New(dir string) *Session {
	storePath := filepath.Join(dir, StoreFile)
	return &Session{
		storePath: storePath,
		metaPath:  storePath + MetaSuffix,
	}
}

// StorePath returns the ledger file path
func (s *Session) StorePath() string {
	return s.storePath
}

// Init creates a new store: fresh random salt and iteration count in
// the meta sidecar, key derived from the password, SQLCipher file
// created with that key. The session is left unlocked on success.
func (s *Session) Init(password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.storePath); err == nil {
		return ErrAlreadyExists
	}

	m, err := meta.Open(s.metaPath)
	if err != nil {
		return fmt.Errorf("failed to create meta sidecar: %w", err)
	}
	defer m.Close()

	if err := m.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize meta sidecar: %w", err)
	}

	kdf, err := crypto.NewKDF()
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}
	if err := m.SetSalt(kdf.Salt); err != nil {
		return fmt.Errorf("failed to store salt: %w", err)
	}
	if err := m.SetIterations(uint32(kdf.Iterations)); err != nil {
		return fmt.Errorf("failed to store iterations: %w", err)
	}
	if _, err := m.GetOrCreateStoreID(); err != nil {
		return fmt.Errorf("failed to create store ID: %w", err)
	}

	key := kdf.DeriveKey(password)

	store, err := ledger.Open(s.storePath, key)
	if err != nil {
		crypto.ClearBytes(key)
		os.Remove(s.storePath)
		return fmt.Errorf("failed to create store: %w", err)
	}

	s.store = store
	s.key = key
	return nil
}

// Unlock derives the key from the password using the persisted KDF
// parameters and opens the store. Any failure — wrong password,
// corrupted file, I/O error — leaves the session Locked with no
// partially opened handle, and is deliberately conflated into
// ErrWrongPasswordOrCorrupt so callers cannot tell which occurred.
func (s *Session) Unlock(password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil // already unlocked
	}

	if _, err := os.Stat(s.storePath); err != nil {
		return ErrNotInitialized
	}

	m, err := meta.Open(s.metaPath)
	if err != nil {
		return ErrWrongPasswordOrCorrupt
	}
	if initialized, err := m.IsInitialized(); err != nil || !initialized {
		m.Close()
		return ErrWrongPasswordOrCorrupt
	}
	salt, err := m.GetSalt()
	if err != nil {
		m.Close()
		return ErrWrongPasswordOrCorrupt
	}
	iterations, err := m.GetIterations()
	if err != nil {
		m.Close()
		return ErrWrongPasswordOrCorrupt
	}
	m.Close()

	kdf := &crypto.KDF{Salt: salt, Iterations: int(iterations)}
	key := kdf.DeriveKey(password)

	store, err := ledger.Open(s.storePath, key)
	if err != nil {
		crypto.ClearBytes(key)
		return ErrWrongPasswordOrCorrupt
	}

	s.store = store
	s.key = key
	return nil
}

// Lock always succeeds: it closes the store handle, zeroes the key and
// returns the session to Locked.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
	if s.key != nil {
		crypto.ClearBytes(s.key)
		s.key = nil
	}
}

// IsLocked reports the current state
func (s *Session) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store == nil
}

// handle returns the current store handle or ErrLocked. Operations run
// against the returned handle outside the state mutex; the storage
// engine serializes concurrent queries internally.
func (s *Session) handle() (*ledger.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, ErrLocked
	}
	return s.store, nil
}

// touchMeta stamps the sidecar's modified time after a successful write
func (s *Session) touchMeta() error {
	m, err := meta.Open(s.metaPath)
	if err != nil {
		return fmt.Errorf("failed to open meta sidecar: %w", err)
	}
	defer m.Close()
	return m.UpdateModified()
}

// StoreID returns the keyring identifier from the meta sidecar.
// Works without a password.
func (s *Session) StoreID() (string, error) {
	if _, err := os.Stat(s.metaPath); err != nil {
		return "", ErrNotInitialized
	}
	m, err := meta.Open(s.metaPath)
	if err != nil {
		return "", fmt.Errorf("failed to open meta sidecar: %w", err)
	}
	defer m.Close()
	return m.GetStoreID()
}

// AddTransaction inserts a transaction into the unlocked store
func (s *Session) AddTransaction(t *ledger.Transaction) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.AddTransaction(t); err != nil {
		return err
	}
	return s.touchMeta()
}

// Transactions returns the most recent transactions, newest first
func (s *Session) Transactions(limit int) ([]ledger.Transaction, error) {
	store, err := s.handle()
	if err != nil {
		return nil, err
	}
	return store.Transactions(limit)
}

// UpdateTransaction replaces a stored transaction
func (s *Session) UpdateTransaction(t *ledger.Transaction) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.UpdateTransaction(t); err != nil {
		return err
	}
	return s.touchMeta()
}

// DeleteTransaction removes a transaction by id
func (s *Session) DeleteTransaction(id string) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.DeleteTransaction(id); err != nil {
		return err
	}
	return s.touchMeta()
}

// Budgets returns all budgets
func (s *Session) Budgets() ([]ledger.Budget, error) {
	store, err := s.handle()
	if err != nil {
		return nil, err
	}
	return store.Budgets()
}

// SetBudget creates or replaces a budget
func (s *Session) SetBudget(b *ledger.Budget) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.SetBudget(b); err != nil {
		return err
	}
	return s.touchMeta()
}

// Categories returns all categories
func (s *Session) Categories() ([]ledger.Category, error) {
	store, err := s.handle()
	if err != nil {
		return nil, err
	}
	return store.Categories()
}

// SetCategory creates or replaces a category
func (s *Session) SetCategory(c *ledger.Category) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.SetCategory(c); err != nil {
		return err
	}
	return s.touchMeta()
}

// Accounts returns all accounts
func (s *Session) Accounts() ([]ledger.Account, error) {
	store, err := s.handle()
	if err != nil {
		return nil, err
	}
	return store.Accounts()
}

// SetAccount creates or replaces an account
func (s *Session) SetAccount(a *ledger.Account) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	if err := store.SetAccount(a); err != nil {
		return err
	}
	return s.touchMeta()
}

// BalanceHistory returns one balance point per day with transactions in
// the trailing days window
func (s *Session) BalanceHistory(days int) ([]analytics.BalancePoint, error) {
	store, err := s.handle()
	if err != nil {
		return nil, err
	}
	entries, err := store.History(days)
	if err != nil {
		return nil, err
	}
	return analytics.BalanceHistory(entries), nil
}

// Metrics derives the full metrics bundle from one consistent snapshot
func (s *Session) Metrics() (analytics.Metrics, error) {
	store, err := s.handle()
	if err != nil {
		return analytics.Metrics{}, err
	}
	entries, balance, err := store.Snapshot(90)
	if err != nil {
		return analytics.Metrics{}, err
	}
	return analytics.Compute(entries, balance, time.Now().UTC()), nil
}

// Backup writes a consistent encrypted copy of the store (and its meta
// sidecar) to path
func (s *Session) Backup(path string) error {
	store, err := s.handle()
	if err != nil {
		return err
	}
	return store.Backup(path)
}

// VerifyIntegrity runs the storage engine's consistency check
func (s *Session) VerifyIntegrity() (bool, error) {
	store, err := s.handle()
	if err != nil {
		return false, err
	}
	return store.VerifyIntegrity()
}
