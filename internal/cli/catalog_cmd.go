package cli

import (
	"fmt"

	"github.com/erp/servicepack/internal/cli/formatter"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "catalog [kind...]",
		Short:       "List predefined entries (task, skill, bom, tool, sop, safety)",
		Annotations: map[string]string{annotationConfigOnly: ""},
		ValidArgs:   kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := make([]servicepack.Kind, 0, len(args))
			for _, a := range args {
				k, err := servicepack.ParseKind(a)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(app.Catalog.Composition(), kinds...))
			return nil
		},
	}
}

func kindNames() []string {
	kinds := servicepack.AllKinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return names
}
