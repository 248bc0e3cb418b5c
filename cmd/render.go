package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"kmadmin/internal/config"
	"kmadmin/internal/grid"
)

func checkOutput(format string) error {
	switch format {
	case config.OutputTable, config.OutputJSON, config.OutputYAML:
		return nil
	}
	return fmt.Errorf("invalid output %q (want table, json or yaml)", format)
}

// renderRows writes rows through the column model in the given format.
// Action columns have no value and are left out.
func renderRows[T any](w io.Writer, cols []grid.Column[T], rows []T, format string) error {
	data := make([]grid.Column[T], 0, len(cols))
	for _, c := range cols {
		if c.Value != nil {
			data = append(data, c)
		}
	}

	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rawRows(data, rows))
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rawRows(data, rows)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return renderTable(w, data, rows)
	}
}

func rawRows[T any](cols []grid.Column[T], rows []T) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]any, len(cols))
		for _, c := range cols {
			m[c.Key] = c.Raw(r)
		}
		out = append(out, m)
	}
	return out
}

func renderTable[T any](w io.Writer, cols []grid.Column[T], rows []T) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	t.AppendHeader(header)

	for _, r := range rows {
		cells := grid.RowCells(cols, r)
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = c.Style.Apply(cells[i].Text)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderHeaders(w io.Writer, headers []grid.Header, format string) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(headers)
	case config.OutputYAML:
		return yaml.NewEncoder(w).Encode(headers)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Key", "Title", "Width", "Sortable", "Max Width"})
	for i, h := range headers {
		maxWidth := ""
		if h.MaxWidth > 0 {
			maxWidth = fmt.Sprint(h.MaxWidth)
		}
		t.AppendRow(table.Row{i + 1, h.Key, h.Title, h.Width, h.Sortable, maxWidth})
	}
	t.Render()
	return nil
}
