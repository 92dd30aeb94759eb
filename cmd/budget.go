package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/ledgerlock/internal/ledger"
)

// SetBudget creates or replaces the budget for a category
func SetBudget(id, category string, amount, spent float64, period string) {
	if category == "" {
		fmt.Fprintln(os.Stderr, "Error: category is required")
		os.Exit(1)
	}

	s := OpenUnlocked(".")
	defer s.Lock()

	b := &ledger.Budget{
		ID:       id,
		Category: category,
		Amount:   amount,
		Spent:    spent,
		Period:   period,
	}

	if err := s.SetBudget(b); err != nil {
		HandleError(err)
	}

	fmt.Printf("budget set: %s  %.2f / %s\n", b.Category, b.Amount, b.Period)
}

// Budgets prints all budgets
func Budgets() {
	s := OpenUnlocked(".")
	defer s.Lock()

	budgets, err := s.Budgets()
	if err != nil {
		HandleError(err)
	}

	if len(budgets) == 0 {
		fmt.Println("No budgets")
		return
	}

	for _, b := range budgets {
		fmt.Printf("%-20s  %10.2f spent of %10.2f  (%s)  %s\n",
			b.Category, b.Spent, b.Amount, b.Period, b.ID)
	}
}
