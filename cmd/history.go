package cmd

import (
	"fmt"
)

// History prints one balance point per day with transactions in the
// trailing days window
func History(days int) {
	s := OpenUnlocked(".")
	defer s.Lock()

	points, err := s.BalanceHistory(days)
	if err != nil {
		HandleError(err)
	}

	if len(points) == 0 {
		fmt.Printf("No transactions in the last %d days\n", days)
		return
	}

	for _, p := range points {
		fmt.Printf("%s  %12.2f\n", p.Date, p.Balance)
	}
}
