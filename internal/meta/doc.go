// Package meta provides the BBolt sidecar that rides alongside the
// page-encrypted ledger file.
//
// The sidecar holds what must be readable before a key can be derived:
//   - KDF salt (random, generated per store at creation)
//   - KDF iteration count
//   - store ID (keys the OS keyring entry)
//   - created/modified timestamps
//
// A backup of the ledger is only openable together with its sidecar,
// so backup copies both files.
package meta
