// Package analytics derives financial metrics from transaction time
// series: per-day balance history, burn rate, runway, income tension,
// balance volatility and maximum drawdown.
//
// All functions are pure: they never touch ledger state. The caller is
// responsible for handing them a consistent snapshot (ledger.Snapshot
// reads the series and the all-time balance in one transaction).
package analytics
