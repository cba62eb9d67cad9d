package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderTable produces a rounded-style table. Numeric columns can be
// right-aligned by listing their 1-based indexes in rightAligned.
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	rightSet := make(map[int]bool, len(rightAligned))
	for _, col := range rightAligned {
		rightSet[col] = true
	}
	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if rightSet[i+1] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// colorizeStatus tints a task or loading status when stdout is a terminal.
func colorizeStatus(status string) string {
	if !stdoutIsTerminal() {
		return status
	}
	var colors text.Colors
	switch status {
	case "completed", "loaded":
		colors = text.Colors{text.FgGreen}
	case "generating", "loading":
		colors = text.Colors{text.FgYellow}
	case "failed", "error":
		colors = text.Colors{text.FgRed}
	default:
		return status
	}
	return colors.Sprint(status)
}
