package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/cache"
	"github.com/idilsaglam/dreams/internal/fakeapi"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/preview"
	"github.com/idilsaglam/dreams/internal/render"
	"github.com/idilsaglam/dreams/internal/session"
	"github.com/idilsaglam/dreams/internal/store/jsonstore"
	"github.com/idilsaglam/dreams/internal/tui"
	"github.com/idilsaglam/dreams/internal/ui"
)

type splashFlag int

const (
	splashAuto splashFlag = iota
	splashOn
	splashOff
)

func newTUICmd(app *App) *cobra.Command {
	var on, off bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board (default when no command is given)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := splashAuto
			switch {
			case on:
				mode = splashOn
			case off:
				mode = splashOff
			}
			return runTUI(cmd, app, mode)
		},
	}
	cmd.Flags().BoolVar(&on, "splash", false, "Show the welcome screen even if it was seen")
	cmd.Flags().BoolVar(&off, "no-splash", false, "Skip the welcome screen")
	cmd.MarkFlagsMutuallyExclusive("splash", "no-splash")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, mode splashFlag) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := tui.Options{
		Runner:   app.runner,
		Notes:    app.notes,
		Session:  session.New(session.ResolveKey(app.cfg.Session)),
		Theme:    app.cfg.UI.Theme,
		PhotoURL: app.client.PhotoURL,
	}
	switch mode {
	case splashOn:
		opt.Splash = tui.SplashForce
	case splashOff:
		opt.Splash = tui.SplashSkip
	default:
		opt.Splash = tui.SplashAuto
	}
	if wd, err := os.Getwd(); err == nil {
		opt.PhotoDir = wd
	}
	return tui.Run(ctx, opt)
}

func newExportCmd(app *App) *cobra.Command {
	var out, title string
	cmd := &cobra.Command{
		Use:   "export-html",
		Short: "Render the board as a standalone HTML page",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := app.runner.Loader().LoadItems(ctx)
			if err != nil {
				return fmt.Errorf("load items: %w", err)
			}

			var buf bytes.Buffer
			h := render.HTML{PhotoURL: app.client.PhotoURL, Location: time.Local}
			if err := h.Page(&buf, render.PageData{Title: title, Items: items, Stats: app.stats(cmd)}); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := jsonstore.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			ui.OK(cmd.ErrOrStderr(), fmt.Sprintf("wrote %s (%d dreams)", out, len(items)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to FILE instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	return cmd
}

func newPreviewCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a read-only HTML view of the board",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loader := action.NewLoader(app.client, cache.New(), preview.Notes)
			srv := preview.New(loader, app.client.PhotoURL, "")
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("preview on http://%s (api %s)", displayAddr(addr), app.client.BaseURL()))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	return cmd
}

func newMockServerCmd(app *App) *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory copy of the bucket-list API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fake := fakeapi.New()
			if seed {
				seedDemo(fake, app.cfg.NameSet())
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("mock api on http://%s", displayAddr(addr)))
			return serveMock(ctx, addr, fake)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "Start with a few demo dreams")
	return cmd
}

func serveMock(ctx context.Context, addr string, fake *fakeapi.Server) error {
	return preview.Serve(ctx, addr, fake.Handler())
}

func seedDemo(fake *fakeapi.Server, names model.Names) {
	author := func(i int) string { return names[i%len(names)] }
	now := time.Now().UTC()
	fake.Seed(model.Item{Description: "See the northern lights", AddedBy: author(0)})
	fake.Seed(model.Item{Description: "Learn to make fresh pasta", AddedBy: author(1)})
	fake.Seed(model.Item{
		Description: "Swim with whale sharks",
		AddedBy:     author(1),
		IsCompleted: true,
		CreatedAt:   model.Timestamp{Time: now.AddDate(0, -2, 0)},
		CompletedAt: model.At(now.AddDate(0, 0, -10)),
	})
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
