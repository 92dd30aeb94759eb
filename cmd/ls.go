package cmd

import (
	"fmt"
)

// List prints the most recent transactions, newest first
func List(limit int) {
	s := OpenUnlocked(".")
	defer s.Lock()

	transactions, err := s.Transactions(limit)
	if err != nil {
		HandleError(err)
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions")
		return
	}

	for _, t := range transactions {
		fmt.Printf("%s  %10.2f  %-24s  %-16s  %s  %s\n",
			t.Date, t.Amount, t.Description, t.Category, t.Account, t.ID)
	}
	fmt.Printf("\n%d transaction(s)\n", len(transactions))
}
