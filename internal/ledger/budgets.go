package ledger

import (
	"fmt"

	"github.com/illarion/ledgerlock/internal/crypto"
)

// Budgets returns all budgets with categories decrypted
func (s *Store) Budgets() ([]Budget, error) {
	rows, err := s.db.Query(
		"SELECT id, category_encrypted, amount, spent, period FROM budgets",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		var encCategory string
		if err := rows.Scan(&b.ID, &encCategory, &b.Amount, &b.Spent, &b.Period); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.Category, err = s.enc.DecryptString(encCategory); err != nil {
			return nil, fmt.Errorf("failed to decrypt category of budget %s: %w", b.ID, err)
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

// SetBudget creates or replaces a budget. An empty ID is assigned a
// fresh random one.
func (s *Store) SetBudget(b *Budget) error {
	if b.ID == "" {
		b.ID = crypto.NewID()
	}
	if b.Period == "" {
		b.Period = "monthly"
	}

	encCategory, err := s.enc.EncryptString(b.Category)
	if err != nil {
		return fmt.Errorf("failed to encrypt category: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO budgets (id, category_encrypted, amount, spent, period, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		b.ID, encCategory, b.Amount, b.Spent, b.Period,
	)
	if err != nil {
		return fmt.Errorf("failed to store budget: %w", err)
	}

	return nil
}

// Categories returns all categories with names decrypted
func (s *Store) Categories() ([]Category, error) {
	rows, err := s.db.Query(
		"SELECT id, name_encrypted, COALESCE(color, ''), COALESCE(icon, '') FROM categories",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var encName string
		if err := rows.Scan(&c.ID, &encName, &c.Color, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if c.Name, err = s.enc.DecryptString(encName); err != nil {
			return nil, fmt.Errorf("failed to decrypt name of category %s: %w", c.ID, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// SetCategory creates or replaces a category
func (s *Store) SetCategory(c *Category) error {
	if c.ID == "" {
		c.ID = crypto.NewID()
	}

	encName, err := s.enc.EncryptString(c.Name)
	if err != nil {
		return fmt.Errorf("failed to encrypt name: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO categories (id, name_encrypted, color, icon) VALUES (?, ?, ?, ?)",
		c.ID, encName, c.Color, c.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to store category: %w", err)
	}

	return nil
}

// Accounts returns all accounts with names decrypted
func (s *Store) Accounts() ([]Account, error) {
	rows, err := s.db.Query(
		"SELECT id, name_encrypted, type, balance FROM accounts",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		var encName string
		if err := rows.Scan(&a.ID, &encName, &a.Type, &a.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if a.Name, err = s.enc.DecryptString(encName); err != nil {
			return nil, fmt.Errorf("failed to decrypt name of account %s: %w", a.ID, err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// SetAccount creates or replaces an account
func (s *Store) SetAccount(a *Account) error {
	if a.ID == "" {
		a.ID = crypto.NewID()
	}

	encName, err := s.enc.EncryptString(a.Name)
	if err != nil {
		return fmt.Errorf("failed to encrypt name: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO accounts (id, name_encrypted, type, balance) VALUES (?, ?, ?, ?)",
		a.ID, encName, a.Type, a.Balance,
	)
	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}

	return nil
}
