package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPersonas(t *testing.T) {
	out, err := execute(t, "personas")
	if err != nil {
		t.Fatalf("personas: %v\n%s", err, out)
	}
	for _, want := range []string{"The Anxious High Earner", "The Concentrated Bettor", "The Freedom Builder", "The Skeptical Analyst", "Net worth", "$520k"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMetrics(t *testing.T) {
	out, err := execute(t, "metrics", "--persona", "4")
	if err != nil {
		t.Fatalf("metrics: %v\n%s", err, out)
	}
	for _, want := range []string{"The Skeptical Analyst", "Runway", "Overlap risk", "Diversification"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "metrics"); err == nil {
		t.Error("metrics without --persona should fail")
	}
	if _, err := execute(t, "metrics", "--persona", "7"); err == nil {
		t.Error("metrics for unknown persona should fail")
	}
}

func TestPhase(t *testing.T) {
	out, err := execute(t, "phase", "--persona", "1", "--phase", "02-06", "--tone", "direct")
	if err != nil {
		t.Fatalf("phase: %v\n%s", err, out)
	}
	for _, want := range []string{"Phase 02-06", "Advisor:", "[Reality Snapshot]", "Visuals:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "phase", "--persona", "1", "--phase", "02-06", "--json")
	if err != nil || !strings.Contains(out, `"evidence_cards"`) {
		t.Errorf("phase --json: %v\n%s", err, out)
	}

	if _, err := execute(t, "phase", "--persona", "1", "--tone", "loud"); err == nil {
		t.Error("unknown tone should fail")
	}
	if _, err := execute(t, "phase", "--persona", "1", "--phase", "31-32"); err == nil {
		t.Error("unknown phase should fail")
	}
}

func TestReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.pdf")
	out, err := execute(t, "report", "--persona", "2", "--phase", "22-25", "-o", path)
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("output = %q", out)
	}
}

func TestContentFlagRejectsMissingDir(t *testing.T) {
	if _, err := execute(t, "--content", "/definitely/not/here", "personas"); err == nil {
		t.Error("missing content dir should fail")
	}
}
