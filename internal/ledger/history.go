package ledger

import (
	"fmt"
	"time"
)

// isoDate is the calendar-day format used throughout the ledger.
// Lexicographic comparison of these strings is chronological.
const isoDate = "2006-01-02"

// windowCutoff returns the inclusive lower bound for a trailing window,
// matching SQLite's date('now', '-N days').
func windowCutoff(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(isoDate)
}

// History returns the (date, amount) series for the trailing days
// window, ascending by date with insertion order breaking ties.
func (s *Store) History(days int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT date, amount FROM transactions WHERE date >= ? ORDER BY date ASC, rowid ASC",
		windowCutoff(days),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Snapshot returns the trailing-days entry series together with the
// all-time balance, both read inside one transaction so every metric
// derived from them reflects the same state of the ledger.
func (s *Store) Snapshot(days int) ([]Entry, float64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		"SELECT date, amount FROM transactions WHERE date >= ? ORDER BY date ASC, rowid ASC",
		windowCutoff(days),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Amount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	var balance float64
	if err := tx.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM transactions",
	).Scan(&balance); err != nil {
		return nil, 0, fmt.Errorf("failed to sum balance: %w", err)
	}

	return entries, balance, nil
}
