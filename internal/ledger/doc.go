// Package ledger provides the page-encrypted relational store for
// ledgerlock.
//
// The store is a SQLCipher database opened with a raw 32-byte key;
// SQLCipher encrypts every page on disk. Confidential text columns
// (transaction description/category, budget category, category and
// account names) are additionally stored as authenticated-encryption
// tokens from the crypto package.
//
// Duplicate detection: each transaction carries a SHA-256 content hash
// over (description, amount, date, account). The hash column has a
// UNIQUE index, so a duplicate insert fails at the store level even if
// two writers race past the friendly pre-check.
package ledger
