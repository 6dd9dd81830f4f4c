package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/api"
	"github.com/idilsaglam/dreams/internal/cache"
	"github.com/idilsaglam/dreams/internal/config"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/notify"
	"github.com/idilsaglam/dreams/internal/ui"
)

// App carries root flag values and the clients built from them.
type App struct {
	APIURL  string
	Theme   string
	Verbose bool
	Color   bool
	NoColor bool

	cfg    config.Config
	client *api.Client
	notes  *notify.Center
	runner *action.Runner
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "dreams",
		Short:         "Our shared bucket list, in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		Example: strings.TrimSpace(`
  # Open the interactive board
  dreams

  # Scriptable commands
  dreams ls --group
  dreams add --by Sam "See the northern lights"
  dreams done 3
  dreams photo add 3 aurora.jpg
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, splashAuto)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "API origin (overrides DREAMS_API_URL)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Color theme: classic, neon or mono (overrides DREAMS_THEME)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log requests to stderr")
	cmd.PersistentFlags().BoolVar(&app.Color, "color", false, "Force colored output")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")
	cmd.MarkFlagsMutuallyExclusive("color", "no-color")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newDoneCmd(app, true))
	cmd.AddCommand(newDoneCmd(app, false))
	cmd.AddCommand(newPhotoCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newMockServerCmd(app))

	return cmd
}

// interactive reports whether cmd takes over the terminal.
func interactive(cmd *cobra.Command) bool {
	return cmd == cmd.Root() || cmd.Name() == "tui"
}

func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if app.APIURL != "" {
		if err := cfg.SetBaseURL(app.APIURL); err != nil {
			return usageErr(fmt.Errorf("--api: %w", err))
		}
	}
	if app.Theme != "" {
		cfg.UI.Theme = app.Theme
	}
	ui.SetTheme(cfg.UI.Theme)
	ui.SetColorForcing(app.Color, app.NoColor)

	if interactive(cmd) {
		err = logger.Setup(logger.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	} else {
		level := "warn"
		if app.Verbose {
			level = "debug"
		}
		err = logger.Setup(logger.Config{Level: level, Console: true})
		logger.SetOutput(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	app.cfg = cfg
	app.client = api.New(cfg.API.BaseURL, cfg.HTTPTimeout())
	app.notes = notify.NewCenter()
	app.runner = action.NewRunner(app.client, cache.New(), app.notes, cfg.NameSet())
	logger.LogDebug("api %s, names %v", cfg.API.BaseURL, cfg.NameSet())
	return nil
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrf("%s: not a valid id: %s", kind, s)
	}
	return id, nil
}

// confirm asks on stdin unless skip is set. Anything but y/yes declines.
func confirm(cmd *cobra.Command, prompt string, skip bool) bool {
	if skip {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// report prints the action's toast and turns a failed action into an error.
func report(cmd *cobra.Command, res action.Result) error {
	if res.Toast != nil {
		if res.Toast.Kind == notify.Error {
			ui.Fail(cmd.ErrOrStderr(), res.Toast.Message)
		} else {
			ui.OK(cmd.OutOrStdout(), res.Toast.Message)
		}
	}
	if res.Err == nil {
		return nil
	}
	if res.Toast != nil {
		return reportedError{res.Err}
	}
	return res.Err
}
