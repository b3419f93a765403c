package cli

import (
	"fmt"

	"github.com/erp/servicepack/internal/cli/formatter"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
		Aliases: []string{"packages"},
		Short:   "List saved service packages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := app.Builder.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplateList(templates))
			return nil
		},
	}
}

func newBundlesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List priced service bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundles, err := app.Builder.ListBundles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBundleList(bundles))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <bundle>",
		Short: "Show a service bundle with its composition and cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBundleID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			bundle, err := app.Builder.GetBundle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBundle(*bundle))
			return nil
		},
	}
}

func newPriceCmd(app *App) *cobra.Command {
	var rate string

	cmd := &cobra.Command{
		Use:   "price <bundle>",
		Short: "Re-price a saved bundle at another labor rate without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			laborRate := app.Builder.LaborRate()
			if rate != "" {
				parsed, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid --rate %q", rate)
				}
				if err := servicepack.ValidateLaborRate(parsed); err != nil {
					return err
				}
				laborRate = parsed
			}

			id, err := resolveBundleID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			bundle, err := app.Builder.GetBundle(cmd.Context(), id)
			if err != nil {
				return err
			}

			s := servicepack.NewSessionFromComposition(bundle.Template.Composition)
			hours := app.Builder.ComputeTotalHours(s)
			estimate := app.Builder.ComputeEstimatedCost(s, laborRate)
			labor := hours.Mul(laborRate)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatter.Bold(bundle.Code), formatter.Dim("saved estimate "+formatter.Money(bundle.EstimatedCost)))
			fmt.Fprint(out, formatter.FormatPrice(servicepack.CostBreakdown{
				TotalHours:       hours,
				LaborRatePerHour: laborRate,
				MaterialCost:     estimate.Sub(labor),
				LaborCost:        labor,
				EstimatedCost:    estimate,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&rate, "rate", "", "labor rate per hour (default: configured pricing.labor_rate_per_hour)")
	return cmd
}
