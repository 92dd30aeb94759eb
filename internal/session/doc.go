// Package session gates every ledger and analytics operation behind an
// unlock state.
//
// A Session starts Locked. Unlock derives the key from the password
// using the KDF parameters persisted in the meta sidecar and opens the
// SQLCipher store; every unlock-path failure is conflated into one
// error so a caller cannot distinguish a wrong password from a
// corrupted file. Lock always succeeds, closes the handle and zeroes
// the key. Operations attempted while Locked fail with ErrLocked and
// perform no partial work.
package session
