package cmd

import (
	"fmt"
)

// Remove deletes a transaction by id
func Remove(id string) {
	s := OpenUnlocked(".")
	defer s.Lock()

	if err := s.DeleteTransaction(id); err != nil {
		HandleError(err)
	}

	fmt.Printf("removed: %s\n", id)
}
