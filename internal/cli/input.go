package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jb-empire/empire-desktop/internal/common"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// maxSecretSize bounds what is read from a pipe.
const maxSecretSize = 64 << 10

var (
	errEmptyInput    = errors.New("no secret given on stdin")
	errInputTooLarge = fmt.Errorf("secret on stdin exceeds %d bytes", maxSecretSize)
)

// readSecret reads a secret without echo when in is a terminal, otherwise
// the whole of in with trailing newlines trimmed.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(prompt, "Enter token: "); err != nil {
			return "", err
		}
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		defer common.WipeByteArray(b)
		return strings.TrimSpace(string(b)), nil
	}

	b, err := io.ReadAll(io.LimitReader(in, maxSecretSize+1))
	defer common.WipeByteArray(b)
	if err != nil {
		return "", err
	}
	if len(b) > maxSecretSize {
		return "", errInputTooLarge
	}
	s := strings.TrimRight(string(b), "\r\n")
	if s == "" {
		return "", errEmptyInput
	}
	return s, nil
}
