// Package report renders a printable PDF summary of one session phase.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ashureev/fula/internal/calc"
	"github.com/ashureev/fula/internal/domain"
	"github.com/ashureev/fula/internal/money"
	"github.com/ashureev/fula/internal/resolve"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	labelWidth   = 60.0
)

const disclaimer = "Educational role-play only. Figures are illustrative, derived from a fixed persona " +
	"profile, and are not financial, tax or legal advice. Confirm tax treatment with a CPA."

// Input is everything a phase summary shows.
type Input struct {
	Persona   domain.Persona
	Scenario  *domain.Scenario
	Tone      domain.Tone
	Goals     []string
	Content   resolve.PhaseContent
	Generated time.Time
}

type builder struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Build renders in as an A4 PDF document.
func Build(in Input) ([]byte, error) {
	m, err := calc.Compute(in.Persona.Profile)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("FULA session summary", true)
	b := &builder{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	b.addHeader(in)
	b.addMetrics(m)
	b.addEvidence(in.Content.EvidenceCards)
	b.addTranscript(in.Content.Rendered(in.Tone))
	b.addAgents(in.Content.AgentConsole)
	b.addFooter()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// text maps characters outside the core font encoding before translating to cp1252.
func (b *builder) text(s string) string {
	return b.tr(strings.ReplaceAll(s, "→", "->"))
}

func (b *builder) section(title string) {
	b.pdf.Ln(4)
	b.pdf.SetFont("Arial", "B", 13)
	b.pdf.SetTextColor(0, 51, 102)
	b.pdf.CellFormat(contentWidth, 8, b.text(title), "B", 1, "L", false, 0, "")
	b.pdf.Ln(2)
	b.body()
}

func (b *builder) body() {
	b.pdf.SetFont("Arial", "", 10)
	b.pdf.SetTextColor(50, 50, 50)
}

func (b *builder) row(label, value string) {
	b.pdf.SetFont("Arial", "B", 10)
	b.pdf.CellFormat(labelWidth, 6, b.text(label), "", 0, "L", false, 0, "")
	b.body()
	b.pdf.MultiCell(contentWidth-labelWidth, 6, b.text(value), "", "L", false)
}

func (b *builder) addHeader(in Input) {
	b.pdf.AddPage()
	b.pdf.SetFont("Arial", "B", 22)
	b.pdf.SetTextColor(0, 51, 102)
	b.pdf.CellFormat(contentWidth, 12, "Advisory Session Summary", "", 1, "L", false, 0, "")

	b.pdf.SetFont("Arial", "", 12)
	b.pdf.SetTextColor(80, 80, 80)
	phase := fmt.Sprintf("Phase %s: %s", in.Content.Phase, in.Content.Title)
	b.pdf.CellFormat(contentWidth, 7, b.text(phase), "", 1, "L", false, 0, "")

	b.pdf.SetFont("Arial", "I", 9)
	b.pdf.CellFormat(contentWidth, 6, "Generated "+in.Generated.Format("2 January 2006 15:04"), "", 1, "L", false, 0, "")

	b.section("Persona")
	b.row("Name", in.Persona.Name)
	b.row("About", in.Persona.Description(in.Tone))
	if in.Scenario != nil {
		b.row("Scenario", in.Scenario.Name+" - "+in.Scenario.Description)
	}
	if len(in.Goals) > 0 {
		b.row("Goals", strings.Join(in.Goals, "; "))
		if domain.GoalsConflict(in.Goals) {
			b.row("Goal conflict", "Property buying competes with time independence for the same buffer.")
		}
	}
	b.row("Tone", string(in.Tone))
}

func (b *builder) addMetrics(m calc.Metrics) {
	b.section("Headline Metrics")

	b.pdf.SetFillColor(245, 247, 250)
	b.pdf.SetDrawColor(200, 200, 200)
	rows := [][2]string{
		{"Liquid assets", money.USD(m.LiquidAssets)},
		{"Runway", money.Months(m.Runway)},
		{"Time Independence Index", money.Months(m.TII)},
		{"Expected net worth", money.USD(m.ENW)},
		{"Wealth accumulation", fmt.Sprintf("%s (ratio %.2f)", m.PAW.Label, m.PAW.Ratio)},
		{"Overlap risk", fmt.Sprintf("%d / 100 (%s)", m.OverlapRisk.Score, m.OverlapRisk.Label)},
		{"Monthly obligations", money.USD(m.Obligations)},
	}
	for i, r := range rows {
		fill := i%2 == 0
		b.pdf.CellFormat(labelWidth+30, 7, b.text(r[0]), "1", 0, "L", fill, 0, "")
		b.pdf.CellFormat(contentWidth-labelWidth-30, 7, b.text(r[1]), "1", 1, "R", fill, 0, "")
	}
	for _, s := range m.OverlapRisk.Signals {
		b.pdf.MultiCell(contentWidth, 5, b.text("- "+s), "", "L", false)
	}
}

func (b *builder) addEvidence(cards []domain.EvidenceCard) {
	if len(cards) == 0 {
		return
	}
	b.section("Evidence")
	for _, c := range cards {
		b.pdf.SetFont("Arial", "B", 11)
		b.pdf.SetTextColor(0, 51, 102)
		b.pdf.MultiCell(contentWidth, 6, b.text(c.Title), "", "L", false)
		b.body()
		for _, blk := range c.Body {
			b.block(blk)
		}
		b.pdf.Ln(2)
	}
}

func (b *builder) block(blk domain.Block) {
	switch blk.Kind {
	case domain.BlockField:
		b.row(blk.Label, blk.Text)
	case domain.BlockText:
		b.pdf.MultiCell(contentWidth, 5, b.text(blk.Text), "", "L", false)
	case domain.BlockList, domain.BlockCallout:
		if blk.Label != "" {
			b.pdf.SetFont("Arial", "B", 10)
			b.pdf.MultiCell(contentWidth, 5, b.text(blk.Label), "", "L", false)
			b.body()
		}
		if blk.Text != "" {
			b.pdf.MultiCell(contentWidth, 5, b.text(blk.Text), "", "L", false)
		}
		for _, item := range blk.Items {
			b.pdf.MultiCell(contentWidth, 5, b.text("  - "+item), "", "L", false)
		}
	}
}

func (b *builder) addTranscript(msgs []domain.RenderedMessage) {
	b.section("Conversation")
	for _, m := range msgs {
		speaker := "You"
		if m.Type == domain.KindAdvisor {
			speaker = "Advisor"
			if m.Severity != "" {
				speaker += " [" + string(m.Severity) + "]"
			}
		}
		b.pdf.SetFont("Arial", "B", 10)
		b.pdf.CellFormat(contentWidth, 5, b.text(speaker), "", 1, "L", false, 0, "")
		b.body()
		b.pdf.MultiCell(contentWidth, 5, b.text(m.Text), "", "L", false)
		if m.Cognition != nil {
			b.pdf.SetFont("Arial", "I", 9)
			b.pdf.SetTextColor(110, 110, 110)
			note := fmt.Sprintf("Lens: %s. %s", m.Cognition.LensApplied, m.Cognition.Conclusion)
			b.pdf.MultiCell(contentWidth, 4.5, b.text(note), "", "L", false)
			b.body()
		}
		b.pdf.Ln(1.5)
	}
}

func (b *builder) addAgents(agents []domain.AgentStatus) {
	if len(agents) == 0 {
		return
	}
	b.section("Agent Console")
	for _, a := range agents {
		b.row(a.Name, fmt.Sprintf("%s: %s", a.Status, a.Outputs))
	}
}

func (b *builder) addFooter() {
	b.pdf.Ln(6)
	b.pdf.SetFont("Arial", "I", 8)
	b.pdf.SetTextColor(120, 120, 120)
	b.pdf.MultiCell(contentWidth, 4, b.text(disclaimer), "T", "L", false)
}
