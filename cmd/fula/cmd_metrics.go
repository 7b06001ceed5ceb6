package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/money"
)

func newMetricsCmd(load loader) *cobra.Command {
	var personaID string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show every derived metric of a persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			p, err := r.Catalog().Persona(domain.PersonaID(personaID))
			if err != nil {
				return err
			}
			m, err := calc.Compute(p.Profile)
			if err != nil {
				return fmt.Errorf("compute metrics: %w", err)
			}
			health, err := calc.HealthScores(p.Profile)
			if err != nil {
				return fmt.Errorf("health scores: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (persona %s)\n", p.Name, p.ID)

			w := newTable("Metric", "Value")
			w.AppendRows([]table.Row{
				{"Liquid assets", money.USD(m.LiquidAssets)},
				{"Monthly obligations", money.USD(m.Obligations)},
				{"Runway", money.Months(m.Runway)},
				{"Time Independence Index", money.Months(m.TII)},
				{"Expected net worth", money.USD(m.ENW)},
				{"Wealth ratio", fmt.Sprintf("%.2f (%s)", m.PAW.Ratio, m.PAW.Label)},
				{"Overlap risk", fmt.Sprintf("%d (%s)", m.OverlapRisk.Score, m.OverlapRisk.Label)},
			})
			alignRight(w, 2)
			fmt.Fprintln(out, w.Render())

			for _, s := range m.OverlapRisk.Signals {
				fmt.Fprintf(out, "  - %s\n", s)
			}

			hw := newTable("Health", "Score")
			hw.AppendRows([]table.Row{
				{"Liquidity", fmt.Sprintf("%.0f", health.Liquidity)},
				{"Solvency", fmt.Sprintf("%.0f", health.Solvency)},
				{"Leverage", fmt.Sprintf("%.0f", health.Leverage)},
				{"Diversification", fmt.Sprintf("%.0f", health.Diversification)},
				{"Growth", fmt.Sprintf("%.0f", health.Growth)},
			})
			alignRight(hw, 2)
			fmt.Fprintln(out, hw.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&personaID, "persona", "", "persona id (required)")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}
