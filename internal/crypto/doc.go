// Package crypto provides cryptographic operations for ledgerlock.
//
// Field encryption uses AES-256-GCM with:
//   - 32-byte key derived from the store password via PBKDF2
//   - 12-byte random nonce per encryption operation
//   - base64(nonce || ciphertext || tag) tokens safe for TEXT columns
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random per-store salt (stored unencrypted in the meta sidecar)
//   - 210,000 iterations (OWASP minimum recommendation)
//
// The same derived key encrypts individual fields and unlocks the
// SQLCipher page encryption, so derivation must be stable across
// process restarts for a given password and salt.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
