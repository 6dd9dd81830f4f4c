package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/dreams/internal/ui"
)

func newPhotoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Attach or remove photos on completed dreams",
	}
	cmd.AddCommand(newPhotoAddCmd(app))
	cmd.AddCommand(newPhotoRemoveCmd(app))
	return cmd
}

func newPhotoAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add ID FILE...",
		Short: "Upload photos to a completed dream, one at a time",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("photo add", args[0])
			if err != nil {
				return err
			}
			it, err := app.find(cmd, id)
			if err != nil {
				return err
			}
			if !it.IsCompleted {
				return fmt.Errorf("photo add: dream %d is not completed yet", id)
			}
			progress := func(done, total int) {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Dim(fmt.Sprintf("Uploading %d/%d...", done, total)))
			}
			return report(cmd, app.runner.UploadPhotos(cmd.Context(), id, args[1:], progress))
		},
	}
}

func newPhotoRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm PHOTO_ID",
		Short: "Delete one photo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("photo rm", args[0])
			if err != nil {
				return err
			}
			if !confirm(cmd, "Delete this photo?", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Dim("cancelled"))
				return nil
			}
			return report(cmd, app.runner.DeletePhoto(cmd.Context(), id))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
