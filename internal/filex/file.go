// Package filex holds small filesystem helpers shared by the config loader,
// the journal and the local store.
package filex

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// homeDir is a test seam for homedir.Dir.
var homeDir = homedir.Dir

// ExpandHome replaces a leading "~" with the user's home directory. The rest
// of the path is appended verbatim, so "~/x" becomes HOME+"/x" and "~x"
// becomes HOME+"x". Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}

	return home + path[1:], nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
