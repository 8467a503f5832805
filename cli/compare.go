// cli/compare.go
package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/goquantile/internal/report"
	"github.com/mwiater/goquantile/quantile"
)

// compareColumnCount is the number of methods shown side by side.
const compareColumnCount = 4

// compareFallbacks fill the columns after the selected method.
var compareFallbacks = []quantile.Method{
	quantile.Linear,
	quantile.Hazen,
	quantile.Weibull,
	quantile.MedianUnbiased,
	quantile.Nearest,
}

// compareColumn holds the values of one method.
type compareColumn struct {
	method string
	rows   []report.Row
}

// compareMsg is sent when every column has been evaluated.
type compareMsg struct {
	columns []compareColumn
}

// compareErr is sent when a column cannot be evaluated.
type compareErr error

// compareMethods returns selected followed by distinct fallbacks.
func compareMethods(selected quantile.Method) []quantile.Method {
	out := []quantile.Method{selected}
	for _, m := range compareFallbacks {
		if len(out) == compareColumnCount {
			break
		}
		if m != selected {
			out = append(out, m)
		}
	}
	return out
}

// compareCmd evaluates qs under every method concurrently.
func compareCmd(methods []quantile.Method, qs []float64, sample []float64) tea.Cmd {
	return func() tea.Msg {
		kernels := make([]*quantile.Kernel[float64], len(methods))
		for i, m := range methods {
			k, err := quantile.NewKernel[float64](m)
			if err != nil {
				return compareErr(err)
			}
			kernels[i] = k
		}
		rows, err := report.Evaluate(kernels, qs, sample)
		if err != nil {
			return compareErr(err)
		}
		columns := make([]compareColumn, len(kernels))
		for i, k := range kernels {
			columns[i] = compareColumn{method: k.Name(), rows: rows[i*len(qs) : (i+1)*len(qs)]}
		}
		return compareMsg{columns: columns}
	}
}

// startCompare switches to the compare view using the most recent
// quantiles, or the configured ones before anything was typed.
func (m *model) startCompare() tea.Cmd {
	qs := m.lastQs
	if len(qs) == 0 {
		qs = m.opts.Quantiles
	}
	m.state = viewCompare
	m.columns = nil
	m.err = nil
	m.isLoading = true
	m.requestStartTime = time.Now()
	m.textArea.Blur()
	return tea.Batch(m.spinner.Tick, compareCmd(compareMethods(m.selected), qs, m.opts.Sample))
}

// compareView renders one bordered column per method.
func (m *model) compareView() string {
	var builder strings.Builder
	builder.WriteString(m.header())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString(m.spinner.View() + fmt.Sprintf(" Comparing... %ss", timer))
		return builder.String()
	}

	columnWidth := (m.width / compareColumnCount) - 2
	if columnWidth < 12 {
		columnWidth = 12
	}
	columnStyle := lipgloss.NewStyle().
		Width(columnWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	var rendered []string
	for _, col := range m.columns {
		var b strings.Builder
		b.WriteString(titleStyle.Render(col.method) + "\n")
		for _, r := range col.rows {
			b.WriteString(fmt.Sprintf("q=%s  %s\n", report.FormatFloat(r.Q), valueStyle.Render(report.FormatFloat(r.Value))))
		}
		rendered = append(rendered, columnStyle.Render(strings.TrimRight(b.String(), "\n")))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	builder.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(" (esc to go back)"))
	return builder.String()
}
