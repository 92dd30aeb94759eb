package cmd

import (
	"fmt"
	"os"
)

// Backup writes a consistent encrypted copy of the store to path
func Backup(path string) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: backup path is required")
		os.Exit(1)
	}

	s := OpenUnlocked(".")
	defer s.Lock()

	if err := s.Backup(path); err != nil {
		HandleError(err)
	}

	fmt.Printf("backup written: %s (and %s.meta)\n", path, path)
}
