// internal/report/render.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/quantile"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	methodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// FormatFloat renders v with the shortest representation that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Render writes res to w in the given format.
func Render(w io.Writer, format string, res Results) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "text", "":
		renderText(w, res)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"method", "q", "value", "gamma", "j"})
	for _, r := range res.Rows {
		t.AppendRow(table.Row{r.Method, FormatFloat(r.Q), FormatFloat(r.Value), FormatFloat(r.Gamma), r.J})
	}
	if res.Summary != nil {
		t.SetCaption("%s", summaryLine(res.Source, *res.Summary))
	}
	return renderTable(t, format)
}

func renderText(w io.Writer, res Results) {
	title := fmt.Sprintf("n=%d", res.N)
	if res.Source != "" {
		title = fmt.Sprintf("%s (%s)", res.Source, title)
	}
	fmt.Fprintln(w, headerStyle.Render(title+":"))

	var current string
	for _, r := range res.Rows {
		if r.Method != current {
			current = r.Method
			fmt.Fprintln(w, "  "+methodStyle.Render(current))
		}
		pos := faintStyle.Render(fmt.Sprintf("(gamma=%s, j=%d)", FormatFloat(r.Gamma), r.J))
		fmt.Fprintf(w, "    >>> q=%-8s %s %s\n", FormatFloat(r.Q), valueStyle.Render(FormatFloat(r.Value)), pos)
	}
	if res.Summary != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, faintStyle.Render(summaryLine("", *res.Summary)))
	}
}

func summaryLine(source string, s dataset.Summary) string {
	line := fmt.Sprintf("count=%d min=%s max=%s mean=%s stddev=%s",
		s.Count, FormatFloat(s.Min), FormatFloat(s.Max), FormatFloat(s.Mean), FormatFloat(s.StdDev))
	if source != "" {
		return source + ": " + line
	}
	return line
}

// RenderMethods writes the method configuration table.
func RenderMethods(w io.Writer, format string) error {
	type methodInfo struct {
		Name          string          `json:"name"`
		HyndmanFan    int             `json:"hyndman_fan,omitempty"`
		Discontinuous bool            `json:"discontinuous"`
		Config        quantile.Config `json:"config"`
	}
	var infos []methodInfo
	for _, m := range quantile.Methods() {
		infos = append(infos, methodInfo{
			Name:          m.String(),
			HyndmanFan:    m.HyndmanFan(),
			Discontinuous: m.Discontinuous(),
			Config:        quantile.MustResolve(m),
		})
	}

	switch format {
	case "json":
		return writeJSON(w, infos)
	case "text", "":
		for _, info := range infos {
			hf := "-"
			if info.HyndmanFan > 0 {
				hf = strconv.Itoa(info.HyndmanFan)
			}
			fmt.Fprintf(w, "%s %s %s\n",
				methodStyle.Render(fmt.Sprintf("%-26s", info.Name)),
				faintStyle.Render(fmt.Sprintf("H&F %-2s", hf)),
				info.Config)
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"method", "h&f", "gamma_l", "gamma_r", "f1", "f2", "j_decrement", "pos_h", "continuous", "zero_clamp", "nearest_tiebreak"})
	for _, info := range infos {
		c := info.Config
		t.AppendRow(table.Row{info.Name, info.HyndmanFan,
			FormatFloat(c.GammaL), FormatFloat(c.GammaR), FormatFloat(c.F1), FormatFloat(c.F2),
			c.JDecrement, FormatFloat(c.PosH), c.Continuous, c.ZeroClamp, c.NearestTiebreak})
	}
	return renderTable(t, format)
}

// RenderMatrix writes one row of quantile values per input row.
func RenderMatrix(w io.Writer, format string, qs []float64, m mat.Matrix) error {
	rows, cols := m.Dims()
	if cols != len(qs) {
		return errors.Errorf("matrix has %d columns for %d quantiles", cols, len(qs))
	}
	values := make([][]float64, rows)
	for r := range values {
		values[r] = mat.Row(nil, r, m)
	}

	switch format {
	case "json":
		return writeJSON(w, struct {
			Quantiles []float64   `json:"quantiles"`
			Values    [][]float64 `json:"values"`
		}{qs, values})
	case "text", "":
		header := make([]string, len(qs))
		for i, q := range qs {
			header[i] = "q=" + FormatFloat(q)
		}
		fmt.Fprintln(w, headerStyle.Render("row\t"+strings.Join(header, "\t")))
		for r, row := range values {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = FormatFloat(v)
			}
			fmt.Fprintf(w, "%d\t%s\n", r, valueStyle.Render(strings.Join(cells, "\t")))
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{"row"}
	for _, q := range qs {
		header = append(header, FormatFloat(q))
	}
	t.AppendHeader(header)
	for r, row := range values {
		cells := table.Row{r}
		for _, v := range row {
			cells = append(cells, FormatFloat(v))
		}
		t.AppendRow(cells)
	}
	return renderTable(t, format)
}

func renderTable(t table.Writer, format string) error {
	switch format {
	case "table":
		t.Render()
	case "markdown":
		t.RenderMarkdown()
	case "csv":
		t.RenderCSV()
	case "html":
		t.RenderHTML()
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode json")
}
