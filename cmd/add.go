package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/illarion/ledgerlock/internal/ledger"
)

// Add inserts one transaction. Amount is signed: positive inflow,
// negative outflow. Date must be an ISO calendar day.
func Add(description string, amount float64, date, category, account string) {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q, expected YYYY-MM-DD\n", date)
		os.Exit(1)
	}
	if description == "" {
		fmt.Fprintln(os.Stderr, "Error: description is required")
		os.Exit(1)
	}

	s := OpenUnlocked(".")
	defer s.Lock()

	t := &ledger.Transaction{
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    category,
		Account:     account,
	}

	if err := s.AddTransaction(t); err != nil {
		HandleError(err)
	}

	fmt.Printf("added: %s  %s  %.2f\n", t.ID, t.Date, t.Amount)
}
