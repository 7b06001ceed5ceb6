package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ashureev/fula/internal/domain"
)

func newTable(header ...any) table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row(header))
	return w
}

func alignRight(w table.Writer, cols ...int) {
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for _, c := range cols {
		cfgs = append(cfgs, table.ColumnConfig{Number: c, Align: text.AlignRight})
	}
	w.SetColumnConfigs(cfgs)
}

func parseTone(s string) (domain.Tone, error) {
	if s == "" {
		return "", nil
	}
	t := domain.Tone(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tone %q (want friendly or direct)", s)
	}
	return t, nil
}
