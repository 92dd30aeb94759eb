package cmd

import (
	"fmt"
)

// Verify runs the storage engine's structural consistency check
func Verify() {
	s := OpenUnlocked(".")
	defer s.Lock()

	ok, err := s.VerifyIntegrity()
	if err != nil {
		HandleError(err)
	}
	if ok {
		fmt.Println("integrity: ok")
	}
}
