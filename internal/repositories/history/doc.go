// Package history persists the sync journal: one row per status or sync run
// with the decided direction, the outcome and the transferred file.
//
// A SQLite implementation (SQLiteRepository) writes through dbx and keeps at
// most a configured number of rows, pruning the oldest inside the same
// transaction as the insert.
package history
