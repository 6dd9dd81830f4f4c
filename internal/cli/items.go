package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/render"
	"github.com/idilsaglam/dreams/internal/ui"
)

const maxTitleWidth = 72

func newListCmd(app *App) *cobra.Command {
	var group, asJSON, photos bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List dreams with progress",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := app.runner.Loader().LoadItems(ctx)
			if err != nil {
				return fmt.Errorf("load items: %w", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			cards := render.Cards(items, app.client.PhotoURL, time.Local)

			lines := statsLines(app.stats(cmd))
			lines = append(lines, "")
			if group {
				lines = append(lines, groupLines(cards, photos)...)
			} else {
				lines = append(lines, flatLines(cards, photos)...)
			}
			lines = append(lines, "")
			lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `dreams add --by NAME \"See the northern lights\"`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "Group output by pending/completed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw item list as JSON")
	cmd.Flags().BoolVar(&photos, "photos", false, "Show photo ids under completed dreams")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion counters",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.runner.Loader().LoadStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}
			ui.Panel(cmd.OutOrStdout(), statsLines(&st))
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "add DESCRIPTION...",
		Short: "Add a dream",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, err := app.author(by)
			if err != nil {
				return err
			}
			res := app.runner.AddItem(cmd.Context(), strings.Join(args, " "), author)
			return report(cmd, res)
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "Who is adding it (one of DREAMS_NAMES)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var by, desc string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a dream's description or author",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("by") && !cmd.Flags().Changed("desc") {
				return usageErrf("edit: nothing to change, pass --desc and/or --by")
			}
			cur, err := app.find(cmd, id)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("desc") {
				desc = cur.Description
			}
			if !cmd.Flags().Changed("by") {
				by = cur.AddedBy
			}
			return report(cmd, app.runner.UpdateItem(cmd.Context(), id, desc, by))
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "New author")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a dream and its photos",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, "Are you sure you want to delete this dream?", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Dim("cancelled"))
				return nil
			}
			return report(cmd, app.runner.DeleteItem(cmd.Context(), id))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newDoneCmd builds `done` (completed=true) and `undone`.
func newDoneCmd(app *App, completed bool) *cobra.Command {
	use, short := "done ID", "Mark a dream as completed"
	if !completed {
		use, short = "undone ID", "Mark a dream as pending again"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(cmd.Name(), args[0])
			if err != nil {
				return err
			}
			return report(cmd, app.runner.ToggleComplete(cmd.Context(), id, completed))
		},
	}
}

// author picks the --by value, defaulting when only one name is configured.
func (app *App) author(by string) (string, error) {
	names := app.cfg.NameSet()
	if by == "" && len(names) == 1 {
		return names[0], nil
	}
	if by == "" {
		return "", usageErrf("add: --by is required (one of %s)", strings.Join(names, ", "))
	}
	return by, nil
}

func (app *App) find(cmd *cobra.Command, id int64) (model.Item, error) {
	if _, err := app.runner.Loader().LoadItems(cmd.Context()); err != nil {
		return model.Item{}, fmt.Errorf("load items: %w", err)
	}
	it, ok := app.runner.Loader().Items().Find(id)
	if !ok {
		return model.Item{}, errNotFound("dream", id)
	}
	return it, nil
}

// -------------- rendering helpers --------------

// stats fetches the server counters; nil when they are unavailable.
func (app *App) stats(cmd *cobra.Command) *model.Stats {
	st, err := app.runner.Loader().LoadStats(cmd.Context())
	if err != nil {
		return nil
	}
	return &st
}

// statsLines is the panel header. Without server stats only the title is shown.
func statsLines(st *model.Stats) []string {
	t := ui.Current()
	title := ui.C(t.Title, "Our Dreams ✨")
	if st == nil {
		return []string{title, ui.C(t.Muted, "stats unavailable")}
	}
	v := render.StatsView(*st)
	header := fmt.Sprintf("%s  %s %s  %s %s  %s %s",
		title,
		ui.C(t.Success, "✔"), v.Completed,
		ui.C(t.Pending, "•"), v.Pending,
		ui.C(t.Accent, "Total"), v.Total,
	)
	return []string{header, ui.C(t.Muted, ui.ProgressBar(v.Fraction, 28, v.Percent))}
}

func flatLines(cards []render.Card, photos bool) []string {
	t := ui.Current()
	if len(cards) == 0 {
		return []string{ui.C(t.Muted, "No dreams yet. Add the first one!")}
	}
	out := make([]string, 0, len(cards)*2)
	for _, c := range cards {
		box, color := t.BoxPending, t.Muted
		if c.Completed {
			box, color = t.BoxDone, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("#%-3d", c.ID)), ui.C(color, box), ui.Truncate(c.Description, maxTitleWidth)))

		meta := []string{ui.C(t.Author, c.Author), c.CreatedLabel}
		if c.CompletedLabel != "" {
			meta = append(meta, "✨ Completed on "+c.CompletedLabel)
		}
		if c.PhotoCount != "" {
			meta = append(meta, c.PhotoCount)
		}
		out = append(out, "     "+ui.C(t.Muted, strings.Join(meta, " · ")))

		if photos && len(c.Thumbs) > 0 {
			ids := make([]string, 0, len(c.Thumbs)+1)
			for _, th := range c.Thumbs {
				ids = append(ids, fmt.Sprintf("#%d", th.PhotoID))
			}
			if more := c.MoreLabel(); more != "" {
				ids = append(ids, more)
			}
			out = append(out, "     "+ui.C(t.Muted, t.SymPhoto+" "+strings.Join(ids, " ")))
		}
	}
	return out
}

func groupLines(cards []render.Card, photos bool) []string {
	var pend, done []render.Card
	for _, c := range cards {
		if c.Completed {
			done = append(done, c)
		} else {
			pend = append(pend, c)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, photos)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Completed"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, photos)...)
	}
	return lines
}
