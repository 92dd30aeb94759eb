package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/ledgerlock/internal/ledger"
)

// Update replaces a stored transaction's fields
func Update(id, description string, amount float64, date, category, account string) {
	if id == "" {
		fmt.Fprintln(os.Stderr, "Error: transaction id is required")
		os.Exit(1)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q, expected YYYY-MM-DD\n", date)
		os.Exit(1)
	}

	s := OpenUnlocked(".")
	defer s.Lock()

	t := &ledger.Transaction{
		ID:          id,
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    category,
		Account:     account,
	}

	if err := s.UpdateTransaction(t); err != nil {
		HandleError(err)
	}

	fmt.Printf("updated: %s\n", id)
}
