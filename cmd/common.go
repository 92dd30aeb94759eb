package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/illarion/ledgerlock/internal/crypto"
	"github.com/illarion/ledgerlock/internal/keyring"
	"github.com/illarion/ledgerlock/internal/ledger"
	"github.com/illarion/ledgerlock/internal/session"
)

// OpenUnlocked creates a session for dir and unlocks it, trying the
// LEDGERLOCK_PASSWORD environment variable, then the OS keyring, then
// an interactive prompt. Exits the process on failure.
func OpenUnlocked(dir string) *session.Session {
	s := session.New(dir)

	// Environment variable first
	if password := session.GetPasswordFromEnv(); password != nil {
		defer crypto.ClearBytes(password)
		if err := s.Unlock(password); err != nil {
			HandleError(err)
		}
		return s
	}

	// Then the OS keyring, falling through on a stale entry
	if storeID, err := s.StoreID(); err == nil {
		if stored, err := keyring.GetPassword(storeID); err == nil {
			password := []byte(stored)
			err := s.Unlock(password)
			crypto.ClearBytes(password)
			if err == nil {
				return s
			}
			fmt.Fprintln(os.Stderr, "warning: keyring password rejected, falling back to prompt")
		}
	}

	// Finally prompt
	password, err := session.ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := s.Unlock(password); err != nil {
		HandleError(err)
	}

	// Offer to remember a password that was entered manually
	if storeID, err := s.StoreID(); err == nil && !keyring.HasPassword(storeID) {
		OfferToSavePassword(storeID, password)
	}

	return s
}

// GetPasswordForInit retrieves the password for the init command:
// environment variable first, then a prompt with confirmation.
func GetPasswordForInit() ([]byte, error) {
	if password := session.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return session.ReadPasswordConfirm()
}

// OfferToSavePassword asks whether to store the password in the OS keyring
func OfferToSavePassword(storeID string, password []byte) {
	fmt.Print("Save password to OS keyring? [y/N]: ")
	var response string
	fmt.Scanln(&response)
	if strings.ToLower(strings.TrimSpace(response)) != "y" {
		return
	}
	if err := keyring.SavePassword(storeID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %v\n", err)
		return
	}
	fmt.Println("Password saved to keyring")
}

// HandleError renders common errors consistently and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, session.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: ledgerlock not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'ledgerlock init' first\n")
	case errors.Is(err, session.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: a store already exists in this directory\n")
		fmt.Fprintf(os.Stderr, "Use 'ledgerlock status' to see its state\n")
	case errors.Is(err, session.ErrWrongPasswordOrCorrupt):
		fmt.Fprintf(os.Stderr, "Error: wrong password or corrupted store\n")
	case errors.Is(err, session.ErrLocked):
		fmt.Fprintf(os.Stderr, "Error: store is locked\n")
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		fmt.Fprintf(os.Stderr, "Error: duplicate transaction detected\n")
	case errors.Is(err, ledger.ErrTransactionNotFound):
		fmt.Fprintf(os.Stderr, "Error: no transaction with that id\n")
	case errors.Is(err, ledger.ErrIntegrityCheckFailed):
		fmt.Fprintf(os.Stderr, "Error: store failed the integrity check\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
