package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/gcm/pkg/config"
	"github.com/macropower/gcm/pkg/store"
)

// ErrorHandler renders err for [fang.WithErrorHandler], followed by a hint
// when one applies.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint := errorHint(err)
	if hint == "" {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render(hint),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hintSuffix(err)),
	)))
	mustN(fmt.Fprintln(w))
}

func errorHint(err error) string {
	switch {
	case isUsageError(err):
		return "--help"
	case errors.Is(err, store.ErrProfileNotFound), errors.Is(err, store.ErrNotFound):
		return cmdName + " list-profiles"
	case errors.Is(err, config.ErrPersistence):
		return cmdName + " show-config --schema"
	}

	return ""
}

func hintSuffix(err error) string {
	switch {
	case isUsageError(err):
		return "for usage."
	case errors.Is(err, config.ErrPersistence):
		return "to see the expected format."
	}

	return "to see existing profiles."
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
		"requires at least",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
