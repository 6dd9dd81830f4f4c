package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/dreams/internal/model"
)

// usageError marks a bad invocation; Run maps it to exit code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErr(err error) error { return usageError{err: err} }

func usageErrf(format string, v ...any) error { return usageError{err: fmt.Errorf(format, v...)} }

// reportedError has already been shown to the user as a toast line.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

type notFoundError struct {
	kind string
	id   int64
}

func (e notFoundError) Error() string { return fmt.Sprintf("%s not found: %d", e.kind, e.id) }

func errNotFound(kind string, id int64) error { return notFoundError{kind: kind, id: id} }

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageErr(err)
		}
		return nil
	}
}

// isUsage covers our own marker, local validation and the errors cobra
// raises before a command runs.
func isUsage(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	if errors.Is(err, model.ErrEmptyDescription) ||
		errors.Is(err, model.ErrDescriptionTooLong) ||
		errors.Is(err, model.ErrUnknownAuthor) {
		return true
	}
	msg := err.Error()
	for _, p := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag", "if any flags in the group"} {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
