package cli

import (
	"context"
	"fmt"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/cli/formatter"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type composeOptions struct {
	code        string
	name        string
	description string
	edit        string
	drag        bool
	dryRun      bool
	picks       map[servicepack.Kind]*[]int
}

func newComposeCmd(app *App) *cobra.Command {
	opts := composeOptions{picks: make(map[servicepack.Kind]*[]int)}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a service package from catalog entries and save it",
		Long: `Compose a service package from catalog entries and save it.

Entries are picked by their index in "servicepack catalog". Saving an empty
package offers to load sample data. With --edit the picks are added to an
existing bundle's package, which is then saved in place.`,
		Example: `  servicepack compose --code PM-500 --name "500 hour service" --task 0 --task 4 --bom 0,1,3
  servicepack compose --edit PM-500-BUNDLE --tool 0 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, app, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.code, "code", "", "service package code (bundle code gets a -BUNDLE suffix)")
	flags.StringVar(&opts.name, "name", "", "service package name")
	flags.StringVar(&opts.description, "description", "", "service package description")
	flags.StringVar(&opts.edit, "edit", "", "bundle id or code to edit")
	flags.BoolVar(&opts.drag, "drag", false, "insert picks by dragging them onto their lists")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the composition and price without saving")
	for _, k := range servicepack.AllKinds() {
		picks := new([]int)
		opts.picks[k] = picks
		flags.IntSliceVar(picks, string(k), nil, fmt.Sprintf("%s catalog index to add (repeatable)", k.Label()))
	}

	return cmd
}

func runCompose(cmd *cobra.Command, app *App, opts composeOptions) error {
	ctx := commandContext(cmd, app)
	out := cmd.OutOrStdout()

	s, req, err := startComposition(ctx, app, opts)
	if err != nil {
		return err
	}
	ctx = logger.WithSessionID(ctx, s.ID().String())

	if err := addPicks(ctx, app, s, opts); err != nil {
		app.Builder.CancelEdit(s)
		return err
	}

	fmt.Fprint(out, formatter.FormatSummary(s.Summary(), app.Builder.LaborRate()))
	if opts.dryRun {
		fmt.Fprint(out, formatter.FormatComposition(s.Snapshot()))
		fmt.Fprint(out, formatter.FormatPrice(app.Builder.Price(s)))
		app.Builder.CancelEdit(s)
		return nil
	}

	res, err := app.Builder.Save(ctx, s, req)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatter.FormatSaveResult(res))
	return nil
}

// startComposition opens a fresh session, or an edit session when --edit is
// given. Header fields not passed on the command line keep the edited values.
func startComposition(ctx context.Context, app *App, opts composeOptions) (*servicepack.Session, appservicepack.SaveRequest, error) {
	req := appservicepack.SaveRequest{Code: opts.code, Name: opts.name, Description: opts.description}
	if opts.edit == "" {
		return app.Builder.StartNew(), req, nil
	}

	id, err := resolveBundleID(ctx, app, opts.edit)
	if err != nil {
		return nil, req, err
	}
	bundle, err := app.Builder.GetBundle(ctx, id)
	if err != nil {
		return nil, req, err
	}
	s, err := app.Builder.StartEdit(ctx, id)
	if err != nil {
		return nil, req, err
	}
	if req.Code == "" {
		req.Code = bundle.Template.Code
	}
	if req.Name == "" {
		req.Name = bundle.Template.Name
	}
	if req.Description == "" {
		req.Description = bundle.Template.Description
	}
	return s, req, nil
}

func addPicks(ctx context.Context, app *App, s *servicepack.Session, opts composeOptions) error {
	drag := appservicepack.NewDragController(app.Router)
	for _, k := range servicepack.AllKinds() {
		for _, idx := range *opts.picks[k] {
			var err error
			if opts.drag {
				err = dragPick(ctx, drag, s, k, idx)
			} else {
				_, err = app.Router.Insert(ctx, s, appservicepack.Intent{
					Kind:         k,
					Source:       appservicepack.SourceCatalogClick,
					CatalogIndex: idx,
				})
			}
			if err != nil {
				return fmt.Errorf("add %s #%d: %w", k.Label(), idx, err)
			}
			logger.FromContext(ctx).Debug("catalog entry added",
				zap.String("kind", string(k)), zap.Int("index", idx))
		}
	}
	return nil
}

func dragPick(ctx context.Context, d *appservicepack.DragController, s *servicepack.Session, k servicepack.Kind, idx int) error {
	if err := d.Start(k, idx); err != nil {
		return err
	}
	if !d.Accepts(k) {
		d.Cancel()
		return fmt.Errorf("%s list does not accept the dragged entry", k.Label())
	}
	_, err := d.Drop(ctx, s, k)
	return err
}
