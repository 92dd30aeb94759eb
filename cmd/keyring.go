package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/ledgerlock/internal/crypto"
	"github.com/illarion/ledgerlock/internal/keyring"
	"github.com/illarion/ledgerlock/internal/session"
)

// KeyringSave saves the store password to the OS keyring
func KeyringSave() {
	s := session.New(".")

	password, err := session.ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Verify the password is correct before storing it
	if err := s.Unlock(password); err != nil {
		HandleError(err)
	}
	s.Lock()

	storeID, err := s.StoreID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(storeID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the store password from the OS keyring
func KeyringDelete() {
	s := session.New(".")

	storeID, err := s.StoreID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(storeID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the OS keyring
func KeyringStatus() {
	s := session.New(".")

	storeID, err := s.StoreID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(storeID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
