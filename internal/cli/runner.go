package cli

import (
	"errors"
	"io"

	"github.com/idilsaglam/dreams/internal/api"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/ui"
)

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	_ = logger.Close()
	return exitCode(stderr, err)
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var reported reportedError
	if errors.As(err, &reported) {
		if api.IsNotFound(err) {
			ui.Hint(stderr, "run `dreams ls` to see valid ids")
		}
		return 1
	}
	ui.Fail(stderr, err.Error())
	if isUsage(err) {
		ui.Hint(stderr, "run `dreams --help` for usage")
		return 2
	}
	var nf notFoundError
	if errors.As(err, &nf) {
		ui.Hint(stderr, "run `dreams ls` to see valid ids")
	}
	return 1
}
