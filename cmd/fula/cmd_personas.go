package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/money"
)

func newPersonasCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List personas with their headline metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := load()
			if err != nil {
				return err
			}

			w := newTable("ID", "Name", "Tone", "Scenario", "Net worth", "Runway", "TII", "Wealth")
			for _, p := range r.Catalog().Personas() {
				m, err := calc.Compute(p.Profile)
				if err != nil {
					return fmt.Errorf("persona %s: %w", p.ID, err)
				}
				w.AppendRow([]any{p.ID, p.Name, p.DefaultTone, p.DefaultScenario, money.Short(p.Profile.NetWorth), money.Months(m.Runway), money.Months(m.TII), m.PAW.Label.Short()})
			}
			alignRight(w, 5, 6, 7)
			fmt.Fprintln(cmd.OutOrStdout(), w.Render())
			return nil
		},
	}
}
