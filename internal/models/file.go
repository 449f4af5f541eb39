// Package models defines the password-file descriptors exchanged between the
// local store, the remote drive and the sync service.
package models

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// PasswordFile is an export file of a password manager, identified by name
// and last-modified timestamp.
type PasswordFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// After reports whether f orders after o: later ModTime first, then Name.
func (f PasswordFile) After(o PasswordFile) bool {
	if !f.ModTime.Equal(o.ModTime) {
		return f.ModTime.After(o.ModTime)
	}
	return f.Name > o.Name
}

// Location names the side a Listing was taken from.
type Location string

const (
	LocationLocal  Location = "local"
	LocationRemote Location = "remote"
)

// Listing is the set of password files found in one directory.
type Listing struct {
	Location Location
	Dir      string
	Files    []PasswordFile
}

// Newest returns the greatest file under PasswordFile.After. The boolean is
// false for an empty listing.
func (l Listing) Newest() (PasswordFile, bool) {
	if len(l.Files) == 0 {
		return PasswordFile{}, false
	}
	return lo.MaxBy(l.Files, func(a, b PasswordFile) bool { return a.After(b) }), true
}

// Sorted returns a copy of the files, newest first.
func (l Listing) Sorted() []PasswordFile {
	out := make([]PasswordFile, len(l.Files))
	copy(out, l.Files)
	sort.SliceStable(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// Find returns the file with the given name.
func (l Listing) Find(name string) (PasswordFile, bool) {
	return lo.Find(l.Files, func(f PasswordFile) bool { return f.Name == name })
}
