package cli

import (
	"fmt"

	"github.com/erp/servicepack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCloneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <package-or-bundle>",
		Short: "Copy a service package or bundle under a -COPY code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd, app)
			id, err := resolveAnyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Builder.Clone(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s %s\n",
				res.Target, formatter.Bold(res.Code), formatter.Dim(res.ID.String()))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <package>",
		Short: "Delete a service package and every bundle derived from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd, app)
			id, err := resolveTemplateID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Builder.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !res.Deleted {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Delete cancelled."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted service package and %d bundle(s)\n", res.CascadedBundles)
			return nil
		},
	}
}

func newDeleteBundleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-bundle <bundle>",
		Short: "Delete one service bundle and keep its package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd, app)
			id, err := resolveBundleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Builder.DeleteBundle(ctx, id)
			if err != nil {
				return err
			}
			if !res.Deleted {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Delete cancelled."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted service bundle")
			return nil
		},
	}
}
