package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// isTerminal reports whether the reader or writer s is a terminal.
func isTerminal(s any) bool {
	f, ok := s.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: Fd fits in int.
}

// highlight writes source to w, syntax highlighted with the named lexer when
// w is a terminal.
func highlight(w io.Writer, source, lexer string) error {
	if !isTerminal(w) {
		_, err := io.WriteString(w, source)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	err := quick.Highlight(w, source, lexer, highlightFormatter, highlightStyle)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", lexer, err)
	}

	return nil
}
