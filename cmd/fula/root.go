package main

import (
	"github.com/spf13/cobra"

	"github.com/ashureev/fula/internal/content"
	"github.com/ashureev/fula/internal/resolve"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	contentDir string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "fula",
		Short: "Inspect FULA personas, metrics and scripted advisory phases",
		Long: "fula prints the persona catalog, the derived liquidity metrics and the\n" +
			"scripted content of each advisory phase, and renders PDF phase summaries.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	cmd.PersistentFlags().StringVar(&flags.contentDir, "content", "", "directory of YAML content overriding the embedded catalog")

	load := func() (*resolve.Resolver, error) {
		cat, err := content.Open(flags.contentDir)
		if err != nil {
			return nil, err
		}
		return resolve.New(cat), nil
	}

	cmd.AddCommand(newPersonasCmd(load))
	cmd.AddCommand(newMetricsCmd(load))
	cmd.AddCommand(newPhaseCmd(load))
	cmd.AddCommand(newReportCmd(load))
	return cmd
}

// loader opens the catalog selected by the root flags.
type loader func() (*resolve.Resolver, error)
