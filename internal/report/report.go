// internal/report/report.go
// Package report turns benchmark outcomes into rows and renders them as a
// terminal table or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/mwiater/llmbench/internal/benchmark"
	"github.com/mwiater/llmbench/internal/util"
)

// ErrorMarker fills the TTFT column of a failed pair.
const ErrorMarker = "error"

// maxErrorRunes bounds error text in table cells only; Row.Error and JSON keep it whole.
const maxErrorRunes = 120

var headers = []string{"Provider", "Model", "Avg TTFT (s)", "Avg TPS (tokens/s)"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = cellStyle.Foreground(lipgloss.Color("160"))
	// Provider, Model, TTFT and TPS columns.
	columnStyles = []lipgloss.Style{
		cellStyle.Foreground(lipgloss.Color("39")),
		cellStyle.Foreground(lipgloss.Color("135")),
		cellStyle.Foreground(lipgloss.Color("34")),
		cellStyle.Foreground(lipgloss.Color("178")),
	}
)

var (
	successfulSummary = color.New(color.FgGreen).SprintFunc()
	partialSummary    = color.New(color.FgYellow).SprintFunc()
	failedSummary     = color.New(color.FgRed).SprintFunc()
)

// Row is one display line of the result table.
type Row struct {
	Provider string
	Model    string
	TTFT     string
	TPS      string
	Failed   bool

	// Raw values kept for machine-readable output.
	AvgTTFT float64
	AvgTPS  float64
	Error   string
}

type jsonRow struct {
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
	AvgTTFT  *float64 `json:"avg_ttft_seconds,omitempty"`
	AvgTPS   *float64 `json:"avg_tps,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Rows maps outcomes to rows, one per pair, in the same order.
func Rows(outcomes []benchmark.Outcome) []Row {
	rows := make([]Row, 0, len(outcomes))
	for _, outcome := range outcomes {
		row := Row{Provider: outcome.ProviderName, Model: outcome.Model}
		if outcome.Err != nil {
			row.Failed = true
			row.Error = outcome.Err.Error()
			row.TTFT = ErrorMarker
			row.TPS = util.Cell(row.Error, maxErrorRunes)
		} else {
			row.AvgTTFT = outcome.Result.AvgTTFT
			row.AvgTPS = outcome.Result.AvgTPS
			row.TTFT = fmt.Sprintf("%.3f", outcome.Result.AvgTTFT)
			row.TPS = fmt.Sprintf("%.2f", outcome.Result.AvgTPS)
		}
		rows = append(rows, row)
	}
	return rows
}

// Render writes the titled result table followed by the success summary.
func Render(w io.Writer, title string, rows []Row) error {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{row.Provider, row.Model, row.TTFT, row.TPS})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].Failed && col >= 2:
				return errorStyle
			case col < len(columnStyles):
				return columnStyles[col]
			default:
				return cellStyle
			}
		})

	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", titleStyle.Render(title), t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Summary(rows))
	return err
}

// Summary reports how many pairs succeeded, colored by how many failed.
func Summary(rows []Row) string {
	succeeded := 0
	for _, row := range rows {
		if !row.Failed {
			succeeded++
		}
	}
	text := fmt.Sprintf("%d/%d pairs succeeded", succeeded, len(rows))
	switch {
	case succeeded == len(rows):
		return successfulSummary(text)
	case succeeded == 0:
		return failedSummary(text)
	default:
		return partialSummary(text)
	}
}

// RenderJSON writes the rows as an indented JSON array.
func RenderJSON(w io.Writer, rows []Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		entry := jsonRow{Provider: row.Provider, Model: row.Model}
		if row.Failed {
			entry.Error = row.Error
		} else {
			ttft, tps := row.AvgTTFT, row.AvgTPS
			entry.AvgTTFT = &ttft
			entry.AvgTPS = &tps
		}
		out = append(out, entry)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Write renders rows in the named format: "table" or "json".
func Write(w io.Writer, format, title string, rows []Row) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return Render(w, title, rows)
	case "json":
		return RenderJSON(w, rows)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
