package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/ledgerlock/internal/session"
)

// Status shows store presence and encryption parameters.
// Does not require a password.
func Status() {
	s := session.New(".")

	status, err := s.Status()
	if err != nil {
		if errors.Is(err, session.ErrNotInitialized) {
			fmt.Println("No ledger store found in current directory")
			fmt.Println("Run 'ledgerlock init' to create one")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("store:          %s (%d bytes)\n", status.StorePath, status.StoreSize)
	fmt.Printf("encryption:     %s\n", status.Algorithm)
	fmt.Printf("KDF iterations: %d\n", status.KDFIterations)
	if !status.LastModified.IsZero() {
		fmt.Printf("last modified:  %s\n", status.LastModified.Format(time.RFC3339))
	}
}
