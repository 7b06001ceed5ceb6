package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/report"
)

type reportFlags struct {
	persona string
	phase   string
	tone    string
	out     string
}

func newReportCmd(load loader) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a PDF summary of one persona phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := load()
			if err != nil {
				return err
			}
			tone, err := parseTone(flags.tone)
			if err != nil {
				return err
			}
			id := domain.PersonaID(flags.persona)
			p, err := r.Catalog().Persona(id)
			if err != nil {
				return err
			}
			if tone == "" {
				tone = p.DefaultTone
			}
			ph, err := domain.ParsePhase(flags.phase)
			if err != nil {
				return err
			}
			pc, err := r.Resolve(id, ph)
			if err != nil {
				return err
			}

			in := report.Input{Persona: p, Tone: tone, Content: pc, Generated: time.Now()}
			if sc, err := r.Catalog().Scenario(p.DefaultScenario); err == nil {
				in.Scenario = &sc
			}
			pdf, err := report.Build(in)
			if err != nil {
				return err
			}

			path := flags.out
			if path == "" {
				path = fmt.Sprintf("fula-persona-%s-%s.pdf", p.ID, ph)
			}
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(pdf))))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.persona, "persona", "", "persona id (required)")
	f.StringVar(&flags.phase, "phase", string(domain.Phase0002), "phase id, e.g. 02-06")
	f.StringVar(&flags.tone, "tone", "", "friendly or direct (defaults to the persona's tone)")
	f.StringVarP(&flags.out, "out", "o", "", "output file (default fula-persona-<id>-<phase>.pdf)")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}
