package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Input names used in messages when no file is given.
const (
	inputExecute = "<execute>"
	inputStdin   = "<stdin>"
)

// errNoInput is returned when there is nothing to read statements from.
var errNoInput = errors.New("no input: pass a file, use -e/--execute, or pipe SQL on stdin")

// inputOptions selects where statements are read from: a file argument,
// the -e/--execute flag, or standard input.
type inputOptions struct {
	Execute string
}

func (o *inputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Execute, "execute", "e", "", "SQL text to read instead of a file")
}

// open returns the statement stream and a display name for it. The caller
// closes the reader.
func (o *inputOptions) open(cmd *cobra.Command, args []string) (string, io.ReadCloser, error) {
	switch {
	case len(args) > 0 && o.Execute != "":
		return "", nil, fmt.Errorf("cannot use a file argument together with --execute")
	case len(args) > 0:
		f, err := os.Open(args[0])
		if err != nil {
			return "", nil, fmt.Errorf("failed to open input: %w", err)
		}
		return args[0], f, nil
	case o.Execute != "":
		return inputExecute, io.NopCloser(strings.NewReader(o.Execute)), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil, errNoInput
	}
	return inputStdin, io.NopCloser(in), nil
}
