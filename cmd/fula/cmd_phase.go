package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/resolve"
)

type phaseFlags struct {
	persona string
	phase   string
	tone    string
	json    bool
}

func newPhaseCmd(load loader) *cobra.Command {
	var flags phaseFlags

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print the transcript, agent console and evidence of one phase",
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

			out := cmd.OutOrStdout()
			if flags.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pc)
			}
			printPhase(out, p, pc, tone)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.persona, "persona", "", "persona id (required)")
	f.StringVar(&flags.phase, "phase", string(domain.Phase0002), "phase id, e.g. 02-06")
	f.StringVar(&flags.tone, "tone", "", "friendly or direct (defaults to the persona's tone)")
	f.BoolVar(&flags.json, "json", false, "print the resolved content as JSON")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}

func printPhase(out io.Writer, p domain.Persona, pc resolve.PhaseContent, tone domain.Tone) {
	fmt.Fprintf(out, "%s | Phase %s: %s\n\n", p.Name, pc.Phase, pc.Title)

	for _, m := range pc.Rendered(tone) {
		speaker := "You"
		if m.Type == domain.KindAdvisor {
			speaker = "Advisor"
		}
		fmt.Fprintf(out, "%s: %s\n", speaker, m.Text)
		for _, q := range m.FollowUps {
			fmt.Fprintf(out, "    ? %s\n", q)
		}
	}

	if len(pc.AgentConsole) > 0 {
		w := newTable("Agent", "Status", "Outputs")
		for _, a := range pc.AgentConsole {
			w.AppendRow([]any{a.Name, a.Status, a.Outputs})
		}
		fmt.Fprintf(out, "\n%s\n", w.Render())
	}

	for _, c := range pc.EvidenceCards {
		fmt.Fprintf(out, "\n[%s]\n", c.Title)
		for _, b := range c.Body {
			switch b.Kind {
			case domain.BlockField:
				fmt.Fprintf(out, "  %s: %s\n", b.Label, b.Text)
			default:
				if b.Label != "" {
					fmt.Fprintf(out, "  %s\n", b.Label)
				}
				if b.Text != "" {
					fmt.Fprintf(out, "  %s\n", b.Text)
				}
				if len(b.Items) > 0 {
					fmt.Fprintf(out, "    - %s\n", strings.Join(b.Items, "\n    - "))
				}
			}
		}
	}

	if len(pc.Visuals) > 0 {
		types := make([]string, 0, len(pc.Visuals))
		for _, v := range pc.Visuals {
			types = append(types, string(v.Type))
		}
		fmt.Fprintf(out, "\nVisuals: %s\n", strings.Join(types, ", "))
	}
}
