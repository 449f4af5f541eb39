package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/passync/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer, user string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "Password for %s: ", user); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, common.ErrEmptyInput
	}
	return pw, nil
}
