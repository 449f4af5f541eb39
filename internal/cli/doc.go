// Package cli implements the passync command line: a cobra command tree whose
// commands load the configuration, wire the drive, the local store and the
// journal, and print the result of the sync service.
package cli
