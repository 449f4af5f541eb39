// Package services contains the application services behind the passync
// commands. SyncService compares the newest password export on each side and
// copies it across when one side is behind.
package services
