package ledger

import (
	"fmt"
	"strconv"

	"github.com/illarion/ledgerlock/internal/crypto"
)

// DefaultLimit is the transaction count returned when no limit is given
const DefaultLimit = 100

// contentHash builds the duplicate-detection digest over the logical
// identity tuple (description, amount, date, account). Fields are
// NUL-separated so adjacent fields cannot alias, e.g. ("gym-", 25)
// and ("gym", -25).
func contentHash(t *Transaction) string {
	amount := strconv.FormatFloat(t.Amount, 'f', -1, 64)
	return crypto.Hash(t.Description + "\x00" + amount + "\x00" + t.Date + "\x00" + t.Account)
}

// AddTransaction inserts one transaction. The identity tuple maps to
// exactly one stored row: a second insert with the same content hash
// returns ErrDuplicateTransaction and leaves no trace. An empty ID is
// assigned a fresh random one.
func (s *Store) AddTransaction(t *Transaction) error {
	if t.ID == "" {
		t.ID = crypto.NewID()
	}

	encDescription, err := s.enc.EncryptString(t.Description)
	if err != nil {
		return fmt.Errorf("failed to encrypt description: %w", err)
	}
	encCategory, err := s.enc.EncryptString(t.Category)
	if err != nil {
		return fmt.Errorf("failed to encrypt category: %w", err)
	}

	hash := contentHash(t)

	// Friendly pre-check; the UNIQUE index on hash closes the
	// check-then-insert race.
	var count int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE hash = ?", hash,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if count > 0 {
		return ErrDuplicateTransaction
	}

	_, err = s.db.Exec(
		`INSERT INTO transactions (id, description_encrypted, amount, date, category_encrypted, account, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, encDescription, t.Amount, t.Date, encCategory, t.Account, hash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Transactions returns the most recent transactions ordered by date
// descending, limited to limit (DefaultLimit when <= 0). Rows sharing a
// date come back most recently inserted first (rowid descending). A
// decrypt failure on any row aborts the whole read.
func (s *Store) Transactions(limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT id, description_encrypted, amount, date, category_encrypted, account
		 FROM transactions ORDER BY date DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var encDescription, encCategory string
		if err := rows.Scan(&t.ID, &encDescription, &t.Amount, &t.Date, &encCategory, &t.Account); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if t.Description, err = s.enc.DecryptString(encDescription); err != nil {
			return nil, fmt.Errorf("failed to decrypt description of %s: %w", t.ID, err)
		}
		if t.Category, err = s.enc.DecryptString(encCategory); err != nil {
			return nil, fmt.Errorf("failed to decrypt category of %s: %w", t.ID, err)
		}

		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// UpdateTransaction replaces the stored row for t.ID, re-encrypting the
// confidential fields and recomputing the content hash. Changing the
// row to collide with another transaction's identity tuple fails with
// ErrDuplicateTransaction.
func (s *Store) UpdateTransaction(t *Transaction) error {
	encDescription, err := s.enc.EncryptString(t.Description)
	if err != nil {
		return fmt.Errorf("failed to encrypt description: %w", err)
	}
	encCategory, err := s.enc.EncryptString(t.Category)
	if err != nil {
		return fmt.Errorf("failed to encrypt category: %w", err)
	}

	hash := contentHash(t)

	var count int
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE hash = ? AND id <> ?", hash, t.ID,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if count > 0 {
		return ErrDuplicateTransaction
	}

	res, err := s.db.Exec(
		`UPDATE transactions
		 SET description_encrypted = ?, amount = ?, date = ?, category_encrypted = ?, account = ?, hash = ?
		 WHERE id = ?`,
		encDescription, t.Amount, t.Date, encCategory, t.Account, hash, t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// DeleteTransaction removes the row with the given id
func (s *Store) DeleteTransaction(id string) error {
	res, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// CountTransactions returns the number of stored transactions
func (s *Store) CountTransactions() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
