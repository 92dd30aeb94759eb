package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/illarion/ledgerlock/internal/ledger"
)

func initSession(t *testing.T, password string) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(dir)
	if err := s.Init([]byte(password)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(s.Lock)
	return s, dir
}

func TestInitAndUnlockCycle(t *testing.T) {
	s, _ := initSession(t, "test-password")

	if s.IsLocked() {
		t.Fatal("Session locked right after Init")
	}

	tx := ledger.Transaction{Description: "seed", Amount: 100, Date: "2024-01-01", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	s.Lock()
	if !s.IsLocked() {
		t.Fatal("Session not locked after Lock")
	}

	if err := s.Unlock([]byte("test-password")); err != nil {
		t.Fatalf("Unlock with correct password failed: %v", err)
	}
	if s.IsLocked() {
		t.Fatal("Session locked after successful Unlock")
	}

	got, err := s.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 1 || got[0].Description != "seed" {
		t.Errorf("Data lost across lock cycle: %+v", got)
	}
}

func TestInitTwice(t *testing.T) {
	s, dir := initSession(t, "test-password")
	s.Lock()

	s2 := New(dir)
	if err := s2.Init([]byte("other-password")); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestUnlockWrongPassword(t *testing.T) {
	s, _ := initSession(t, "correct-password")
	s.Lock()

	err := s.Unlock([]byte("wrong-password"))
	if !errors.Is(err, ErrWrongPasswordOrCorrupt) {
		t.Errorf("Expected ErrWrongPasswordOrCorrupt, got %v", err)
	}
	if !s.IsLocked() {
		t.Error("Session unlocked after failed Unlock")
	}
}

func TestUnlockCorruptedStore(t *testing.T) {
	s, _ := initSession(t, "test-password")
	s.Lock()

	// Overwrite the store with garbage. The correct password must now
	// fail with the same error as a wrong password.
	if err := os.WriteFile(s.StorePath(), []byte("not a sqlcipher file"), 0600); err != nil {
		t.Fatalf("Failed to corrupt store: %v", err)
	}

	err := s.Unlock([]byte("test-password"))
	if !errors.Is(err, ErrWrongPasswordOrCorrupt) {
		t.Errorf("Expected ErrWrongPasswordOrCorrupt, got %v", err)
	}
}

func TestUnlockMissingStore(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Unlock([]byte("any")); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestLockedOperationsRejected(t *testing.T) {
	s, _ := initSession(t, "test-password")

	tx := ledger.Transaction{Description: "before lock", Amount: 10, Date: "2024-01-01", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	s.Lock()

	blocked := ledger.Transaction{Description: "while locked", Amount: 20, Date: "2024-01-02", Account: "main"}
	if err := s.AddTransaction(&blocked); !errors.Is(err, ErrLocked) {
		t.Errorf("AddTransaction while locked: expected ErrLocked, got %v", err)
	}
	if _, err := s.Transactions(0); !errors.Is(err, ErrLocked) {
		t.Errorf("Transactions while locked: expected ErrLocked, got %v", err)
	}
	if err := s.DeleteTransaction(tx.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("DeleteTransaction while locked: expected ErrLocked, got %v", err)
	}
	if _, err := s.Metrics(); !errors.Is(err, ErrLocked) {
		t.Errorf("Metrics while locked: expected ErrLocked, got %v", err)
	}
	if _, err := s.BalanceHistory(30); !errors.Is(err, ErrLocked) {
		t.Errorf("BalanceHistory while locked: expected ErrLocked, got %v", err)
	}

	// The rejected write must not have touched the store.
	if err := s.Unlock([]byte("test-password")); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	got, err := s.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Row count changed by rejected operation: got %d, want 1", len(got))
	}
}

func TestWriteAdvancesModified(t *testing.T) {
	s, _ := initSession(t, "test-password")

	before, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if before.LastModified.IsZero() {
		t.Fatal("No modified time after Init")
	}

	time.Sleep(10 * time.Millisecond)

	tx := ledger.Transaction{Description: "touch", Amount: 5, Date: "2024-01-01", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	after, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !after.LastModified.After(before.LastModified) {
		t.Errorf("Modified time did not advance: before=%v after=%v",
			before.LastModified, after.LastModified)
	}

	// Deletes count as writes too.
	time.Sleep(10 * time.Millisecond)
	if err := s.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	final, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !final.LastModified.After(after.LastModified) {
		t.Errorf("Modified time did not advance on delete: before=%v after=%v",
			after.LastModified, final.LastModified)
	}
}

func TestLockIdempotent(t *testing.T) {
	s, _ := initSession(t, "test-password")

	s.Lock()
	s.Lock() // locking a locked session is a no-op
	if !s.IsLocked() {
		t.Error("Session not locked")
	}
}

func TestMetricsThroughSession(t *testing.T) {
	s, _ := initSession(t, "test-password")

	today := time.Now().UTC().Format("2006-01-02")
	txs := []ledger.Transaction{
		{Description: "salary", Amount: 2000, Date: today, Account: "main"},
		{Description: "rent", Amount: -800, Date: today, Account: "main"},
	}
	for i := range txs {
		if err := s.AddTransaction(&txs[i]); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	m, err := s.Metrics()
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if m.Balance != 1200 {
		t.Errorf("Balance: got %.2f, want 1200", m.Balance)
	}
	if m.BurnRate != 800 {
		t.Errorf("Burn rate: got %.2f, want 800", m.BurnRate)
	}

	history, err := s.BalanceHistory(30)
	if err != nil {
		t.Fatalf("BalanceHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].Balance != 1200 {
		t.Errorf("Balance history mismatch: %+v", history)
	}
}

func TestBackupReopensViaUnlock(t *testing.T) {
	s, _ := initSession(t, "test-password")

	tx := ledger.Transaction{Description: "keep me", Amount: 42, Date: "2024-02-01", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	// Back up into a second directory under the standard store name so
	// the normal unlock flow can open the copy.
	backupDir := t.TempDir()
	if err := s.Backup(filepath.Join(backupDir, StoreFile)); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	s.Lock()

	restored := New(backupDir)
	if err := restored.Unlock([]byte("test-password")); err != nil {
		t.Fatalf("Unlock of backup failed: %v", err)
	}
	defer restored.Lock()

	got, err := restored.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions from backup failed: %v", err)
	}
	if len(got) != 1 || got[0] != tx {
		t.Errorf("Backup content mismatch: %+v", got)
	}
}

func TestStoreIDWithoutPassword(t *testing.T) {
	s, dir := initSession(t, "test-password")

	id, err := s.StoreID()
	if err != nil {
		t.Fatalf("StoreID failed: %v", err)
	}
	if id == "" {
		t.Fatal("Empty store ID")
	}
	s.Lock()

	// A fresh locked session in the same directory sees the same ID.
	s2 := New(dir)
	id2, err := s2.StoreID()
	if err != nil {
		t.Fatalf("StoreID on locked session failed: %v", err)
	}
	if id2 != id {
		t.Errorf("Store ID mismatch: %s vs %s", id, id2)
	}
}

func TestStatusWithoutPassword(t *testing.T) {
	s, dir := initSession(t, "test-password")
	s.Lock()

	s2 := New(dir)
	status, err := s2.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.StoreSize <= 0 {
		t.Errorf("Store size: got %d, want > 0", status.StoreSize)
	}
	if status.KDFIterations == 0 {
		t.Error("KDF iterations missing from status")
	}
}

func TestStatusNotInitialized(t *testing.T) {
	s := New(t.TempDir())

	if _, err := s.Status(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}
