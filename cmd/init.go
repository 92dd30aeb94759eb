package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/ledgerlock/internal/crypto"
	"github.com/illarion/ledgerlock/internal/session"
)

// Init creates a new encrypted ledger store in the current directory
func Init() {
	s := session.New(".")

	password, err := GetPasswordForInit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := s.Init(password); err != nil {
		if errors.Is(err, session.ErrAlreadyExists) {
			fmt.Fprintf(os.Stderr, "Error: a store already exists in this directory\n")
			fmt.Fprintf(os.Stderr, "Use 'ledgerlock status' to see its state\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
	defer s.Lock()

	fmt.Printf("✓ Initialized %s\n", session.StoreFile)
}
