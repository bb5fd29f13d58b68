// Package yaml wraps [github.com/goccy/go-yaml] with errors that point at the
// offending location in the source document.
//
// The persisted gcm document is JSON, which goccy/go-yaml parses as YAML flow
// style, so the same positions are reported for both formats.
package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap applies the wrapper's options to err if it is an [Error].
// Any other error is returned unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error is a decoding or validation error with an optional location, given
// either as a [*yaml.Path] or as the [*token.Token] where it occurred.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err: err,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Token != nil:
		return fmt.Sprintf("[%d:%d] %v", e.Token.Position.Line, e.Token.Position.Column, e.Err)

	case e.Path != nil:
		msg := fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
		if len(e.Source) == 0 {
			return msg
		}

		annotated, err := e.Path.AnnotateSource(e.Source, false)
		if err != nil {
			slog.Debug("annotate source",
				slog.String("path", e.Path.String()),
				slog.Any("error", err),
			)

			return msg
		}

		return msg + "\n" + strings.TrimRight(string(annotated), "\n")
	}

	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}
