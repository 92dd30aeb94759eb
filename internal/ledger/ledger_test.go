package ledger

import (
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/illarion/ledgerlock/internal/crypto"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.GenerateRandom(crypto.KeySize)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return key
}

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path, testKey(t))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := Open(path, testKey(t))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.AddTransaction(&Transaction{
		Description: "seed", Amount: 1, Date: "2024-01-01", Account: "main",
	}); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	s.Close()

	if _, err := Open(path, testKey(t)); err == nil {
		t.Error("Opening with a different key succeeded")
	}
}

func TestAddAndListOrder(t *testing.T) {
	s := testStore(t)

	txs := []Transaction{
		{Description: "rent", Amount: -900, Date: "2024-03-01", Category: "housing", Account: "main"},
		{Description: "salary", Amount: 2500, Date: "2024-03-05", Category: "income", Account: "main"},
		{Description: "coffee", Amount: -4.5, Date: "2024-03-05", Category: "food", Account: "main"},
		{Description: "books", Amount: -30, Date: "2024-03-02", Category: "leisure", Account: "main"},
	}
	for i := range txs {
		if err := s.AddTransaction(&txs[i]); err != nil {
			t.Fatalf("AddTransaction(%s) failed: %v", txs[i].Description, err)
		}
		if txs[i].ID == "" {
			t.Fatal("AddTransaction did not assign an ID")
		}
	}

	got, err := s.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}

	// Date descending; same-date rows most recently inserted first.
	wantOrder := []string{"coffee", "salary", "books", "rent"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Transaction count: got %d, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Description != want {
			t.Errorf("Position %d: got %q, want %q", i, got[i].Description, want)
		}
	}

	limited, err := s.Transactions(2)
	if err != nil {
		t.Fatalf("Transactions with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Limited count: got %d, want 2", len(limited))
	}
}

func TestRoundTripFields(t *testing.T) {
	s := testStore(t)

	in := Transaction{
		Description: "dinner – crème brûlée",
		Amount:      -42.37,
		Date:        "2024-05-20",
		Category:    "food",
		Account:     "checking",
	}
	if err := s.AddTransaction(&in); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	got, err := s.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Transaction count: got %d, want 1", len(got))
	}
	if got[0] != in {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", got[0], in)
	}
}

func TestDuplicateRejected(t *testing.T) {
	s := testStore(t)

	base := Transaction{Description: "gym", Amount: -25, Date: "2024-04-01", Account: "main"}
	if err := s.AddTransaction(&base); err != nil {
		t.Fatalf("First AddTransaction failed: %v", err)
	}

	// Same identity tuple, fresh ID: must be rejected.
	dup := Transaction{Description: "gym", Amount: -25, Date: "2024-04-01", Account: "main"}
	if err := s.AddTransaction(&dup); !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("Expected ErrDuplicateTransaction, got %v", err)
	}

	count, err := s.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Rejected duplicate left a trace: count %d", count)
	}

	// Changing any one field of the tuple makes it a new transaction.
	variants := []Transaction{
		{Description: "gym membership", Amount: -25, Date: "2024-04-01", Account: "main"},
		{Description: "gym", Amount: -26, Date: "2024-04-01", Account: "main"},
		{Description: "gym", Amount: -25, Date: "2024-04-02", Account: "main"},
		{Description: "gym", Amount: -25, Date: "2024-04-01", Account: "savings"},
	}
	for i := range variants {
		if err := s.AddTransaction(&variants[i]); err != nil {
			t.Errorf("Variant %d rejected: %v", i, err)
		}
	}

	// Category is not part of the identity tuple.
	sameButCategorized := Transaction{
		Description: "gym", Amount: -25, Date: "2024-04-01", Category: "health", Account: "main",
	}
	if err := s.AddTransaction(&sameButCategorized); !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("Category changed the identity tuple: %v", err)
	}
}

func TestHashFieldBoundaries(t *testing.T) {
	s := testStore(t)

	// These concatenate to the same string without separators; they
	// are distinct transactions and both must be accepted.
	a := Transaction{Description: "gym-", Amount: 25, Date: "2024-04-01", Account: "main"}
	b := Transaction{Description: "gym", Amount: -25, Date: "2024-04-01", Account: "main"}

	if err := s.AddTransaction(&a); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if err := s.AddTransaction(&b); err != nil {
		t.Errorf("Distinct tuple rejected as duplicate: %v", err)
	}
}

func TestCiphertextAtRest(t *testing.T) {
	s := testStore(t)

	in := Transaction{
		Description: "visible-plaintext-marker",
		Amount:      -10,
		Date:        "2024-02-02",
		Category:    "secret-category-marker",
		Account:     "main",
	}
	if err := s.AddTransaction(&in); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	var encDescription, encCategory string
	if err := s.db.QueryRow(
		"SELECT description_encrypted, category_encrypted FROM transactions WHERE id = ?", in.ID,
	).Scan(&encDescription, &encCategory); err != nil {
		t.Fatalf("Failed to read raw row: %v", err)
	}

	if strings.Contains(encDescription, in.Description) {
		t.Error("Stored description contains plaintext")
	}
	if strings.Contains(encCategory, in.Category) {
		t.Error("Stored category contains plaintext")
	}

	// Stored values are base64 tokens with at least nonce+tag overhead.
	for _, token := range []string{encDescription, encCategory} {
		data, err := base64.StdEncoding.DecodeString(token)
		if err != nil {
			t.Fatalf("Stored token is not base64: %v", err)
		}
		if len(data) < crypto.NonceSize+crypto.TagSize {
			t.Errorf("Stored token too short: %d bytes", len(data))
		}
	}
}

func TestUpdateTransaction(t *testing.T) {
	s := testStore(t)

	tx := Transaction{Description: "taxi", Amount: -15, Date: "2024-04-10", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	tx.Amount = -18.5
	tx.Category = "transport"
	if err := s.UpdateTransaction(&tx); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	got, err := s.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 1 || got[0] != tx {
		t.Errorf("Update not persisted: %+v", got)
	}

	missing := Transaction{ID: crypto.NewID(), Description: "ghost", Amount: 1, Date: "2024-04-10", Account: "main"}
	if err := s.UpdateTransaction(&missing); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateToDuplicate(t *testing.T) {
	s := testStore(t)

	a := Transaction{Description: "lunch", Amount: -12, Date: "2024-04-11", Account: "main"}
	b := Transaction{Description: "dinner", Amount: -20, Date: "2024-04-11", Account: "main"}
	for _, tx := range []*Transaction{&a, &b} {
		if err := s.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	// Rewriting b into a's identity tuple must fail.
	b.Description = "lunch"
	b.Amount = -12
	if err := s.UpdateTransaction(&b); !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("Expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := testStore(t)

	tx := Transaction{Description: "snack", Amount: -3, Date: "2024-04-12", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	if err := s.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	count, err := s.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count after delete: got %d, want 0", count)
	}

	if err := s.DeleteTransaction(tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestBudgetUpsert(t *testing.T) {
	s := testStore(t)

	b := Budget{Category: "food", Amount: 400}
	if err := s.SetBudget(&b); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	if b.ID == "" {
		t.Fatal("SetBudget did not assign an ID")
	}
	if b.Period != "monthly" {
		t.Errorf("Default period: got %q, want monthly", b.Period)
	}

	b.Amount = 450
	b.Spent = 120.5
	if err := s.SetBudget(&b); err != nil {
		t.Fatalf("SetBudget replace failed: %v", err)
	}

	budgets, err := s.Budgets()
	if err != nil {
		t.Fatalf("Budgets failed: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("Budget count after upsert: got %d, want 1", len(budgets))
	}
	if budgets[0] != b {
		t.Errorf("Budget mismatch:\ngot  %+v\nwant %+v", budgets[0], b)
	}
}

func TestCategoriesAndAccounts(t *testing.T) {
	s := testStore(t)

	c := Category{Name: "groceries", Color: "#00ff00", Icon: "cart"}
	if err := s.SetCategory(&c); err != nil {
		t.Fatalf("SetCategory failed: %v", err)
	}

	categories, err := s.Categories()
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != c {
		t.Errorf("Category mismatch: %+v", categories)
	}

	a := Account{Name: "daily checking", Type: "checking", Balance: 321.09}
	if err := s.SetAccount(&a); err != nil {
		t.Fatalf("SetAccount failed: %v", err)
	}

	accounts, err := s.Accounts()
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != a {
		t.Errorf("Account mismatch: %+v", accounts)
	}
}

func TestHistoryWindow(t *testing.T) {
	s := testStore(t)

	today := time.Now().UTC()
	recent := today.AddDate(0, 0, -2).Format(isoDate)
	old := today.AddDate(0, 0, -40).Format(isoDate)

	txs := []Transaction{
		{Description: "old", Amount: -100, Date: old, Account: "main"},
		{Description: "recent", Amount: 50, Date: recent, Account: "main"},
		{Description: "today", Amount: -5, Date: today.Format(isoDate), Account: "main"},
	}
	for i := range txs {
		if err := s.AddTransaction(&txs[i]); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	entries, err := s.History(7)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Window entry count: got %d, want 2", len(entries))
	}
	// Ascending by date.
	if entries[0].Date != recent || entries[1].Date != today.Format(isoDate) {
		t.Errorf("Window order wrong: %+v", entries)
	}

	all, err := s.History(90)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Wide window entry count: got %d, want 3", len(all))
	}
}

func TestSnapshot(t *testing.T) {
	s := testStore(t)

	today := time.Now().UTC()
	txs := []Transaction{
		{Description: "ancient", Amount: 1000, Date: "2020-01-01", Account: "main"},
		{Description: "recent", Amount: -80, Date: today.AddDate(0, 0, -3).Format(isoDate), Account: "main"},
	}
	for i := range txs {
		if err := s.AddTransaction(&txs[i]); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	entries, balance, err := s.Snapshot(90)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	// Series is windowed, balance is all-time.
	if len(entries) != 1 {
		t.Errorf("Snapshot entry count: got %d, want 1", len(entries))
	}
	if balance != 920 {
		t.Errorf("Snapshot balance: got %.2f, want 920", balance)
	}
}

func TestBackupAndReopen(t *testing.T) {
	dir := t.TempDir()
	key := testKey(t)

	s, err := Open(filepath.Join(dir, "ledger.db"), key)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	tx := Transaction{Description: "backup me", Amount: 7, Date: "2024-01-15", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	backupPath := filepath.Join(dir, "backup.db")
	if err := s.Backup(backupPath); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	restored, err := Open(backupPath, key)
	if err != nil {
		t.Fatalf("Failed to open backup with the same key: %v", err)
	}
	defer restored.Close()

	got, err := restored.Transactions(0)
	if err != nil {
		t.Fatalf("Transactions from backup failed: %v", err)
	}
	if len(got) != 1 || got[0] != tx {
		t.Errorf("Backup content mismatch: %+v", got)
	}
}

func TestBackupPathWithQuote(t *testing.T) {
	dir := t.TempDir()
	key := testKey(t)

	s, err := Open(filepath.Join(dir, "ledger.db"), key)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	tx := Transaction{Description: "quoted", Amount: 1, Date: "2024-01-15", Account: "main"}
	if err := s.AddTransaction(&tx); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	backupPath := filepath.Join(dir, "o'brien.db")
	if err := s.Backup(backupPath); err != nil {
		t.Fatalf("Backup to quoted path failed: %v", err)
	}

	restored, err := Open(backupPath, key)
	if err != nil {
		t.Fatalf("Failed to open backup: %v", err)
	}
	defer restored.Close()

	count, err := restored.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Backup row count: got %d, want 1", count)
	}
}

func TestVerifyIntegrity(t *testing.T) {
	s := testStore(t)

	ok, err := s.VerifyIntegrity()
	if err != nil {
		t.Fatalf("VerifyIntegrity failed: %v", err)
	}
	if !ok {
		t.Error("Fresh store failed integrity check")
	}
}
