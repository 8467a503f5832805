// cli/cli.go
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/mwiater/goquantile/internal/config"
	"github.com/mwiater/goquantile/internal/report"
	"github.com/mwiater/goquantile/quantile"
)

// Options contains the settings that drive the explorer.
type Options struct {
	// Sample is the sorted sample being explored.
	Sample []float64
	// Source labels the sample in the header, for example a file name.
	Source string
	// Method is preselected in the method list.
	Method quantile.Method
	// Quantiles seed the compare view before anything has been typed.
	Quantiles []float64
	// Workers bounds batch evaluation; 0 means GOMAXPROCS.
	Workers int
	// Debug shows the position (gamma, j) next to every value.
	Debug bool
}

// viewState represents the current state of the application's view.
type viewState int

const (
	// viewMethodSelector is the state where the user picks a method.
	viewMethodSelector viewState = iota
	// viewExplore is the state where the user types quantiles and reads values.
	viewExplore
	// viewCompare shows several methods side by side.
	viewCompare
)

// evaluation is one submitted line of quantiles and its results.
type evaluation struct {
	input string
	rows  []report.Row
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	opts Options
	// Current view state of the application.
	state viewState
	// Indicates if an evaluation is in progress.
	isLoading bool
	// Last error; shown inline and cleared by the next submission.
	err error

	methodList list.Model
	textArea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model

	kernel   *quantile.Kernel[float64]
	selected quantile.Method
	history  []evaluation
	// lastQs are the quantiles of the most recent submission.
	lastQs  []float64
	columns []compareColumn

	width, height    int
	requestStartTime time.Time
}

// item represents a method in the selection list.
type item struct {
	method quantile.Method
	title  string
	desc   string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering in the list.
func (i item) FilterValue() string { return i.title }

func methodItems() []list.Item {
	var items []list.Item
	for _, m := range quantile.Methods() {
		kind := "continuous"
		if m.Discontinuous() {
			kind = "discontinuous"
		}
		desc := kind
		if hf := m.HyndmanFan(); hf > 0 {
			desc = fmt.Sprintf("Hyndman & Fan definition %d, %s", hf, kind)
		}
		items = append(items, item{method: m, title: m.String(), desc: desc})
	}
	return items
}

// initialModel initializes a new model with default values and sets up
// the spinner, textarea, viewport and method list.
func initialModel(opts Options) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "0.25, 0.5, p95 ..."
	ta.Prompt = "Quantiles: "
	ta.ShowLineNumbers = false
	ta.CharLimit = 512
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	methodList := list.New(methodItems(), list.NewDefaultDelegate(), 0, 0)
	methodList.Title = "Select a Method"
	if opts.Method.Valid() {
		methodList.Select(int(opts.Method))
	}

	return &model{
		opts:       opts,
		state:      viewMethodSelector,
		spinner:    s,
		textArea:   ta,
		methodList: methodList,
		viewport:   viewport.New(100, 5),
	}
}

// evaluatedMsg carries the results of one submitted line.
type evaluatedMsg evaluation

// evaluateErr is sent when a submitted line cannot be evaluated.
type evaluateErr error

// evaluateCmd runs the quantiles of one line through the batch path of k.
func evaluateCmd(k *quantile.Kernel[float64], input string, qs []float64, sample []float64, workers int) tea.Cmd {
	return func() tea.Msg {
		reqs := make([]quantile.Request[float64], len(qs))
		for i, q := range qs {
			reqs[i] = quantile.Request[float64]{Q: q, Sample: sample}
		}
		values, err := k.Batch(context.Background(), reqs, quantile.WithWorkers(workers))
		if err != nil {
			return evaluateErr(err)
		}
		rows := make([]report.Row, len(qs))
		for i, q := range qs {
			rows[i] = report.Row{Method: k.Name(), Q: q, Value: values[i]}
			if len(sample) > 1 {
				rows[i].Gamma, rows[i].J = k.Config().Position(q, len(sample))
			}
		}
		return evaluatedMsg{input: input, rows: rows}
	}
}

// Init initializes the Bubble Tea model. It returns a command to start the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// q is text while typing quantiles or filtering the method list.
			if m.state != viewExplore && m.methodList.FilterState() != list.Filtering {
				return m, tea.Quit
			}
		case "tab":
			if m.state != viewMethodSelector {
				m.state = viewMethodSelector
				m.textArea.Blur()
				return m, nil
			}
		case "esc":
			if m.state == viewCompare {
				m.state = viewExplore
				m.textArea.Focus()
				return m, nil
			}
		case "ctrl+t":
			if m.state == viewExplore && !m.isLoading {
				return m, m.startCompare()
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.methodList.SetSize(msg.Width-2, msg.Height-4)
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 4
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case evaluatedMsg:
		m.isLoading = false
		m.history = append(m.history, evaluation(msg))
		m.viewport.SetContent(m.historyContent())
		m.viewport.GotoBottom()
		m.textArea.Focus()
		return m, nil

	case evaluateErr:
		m.isLoading = false
		m.err = msg
		m.textArea.Focus()
		return m, nil

	case compareMsg:
		m.isLoading = false
		m.columns = msg.columns
		return m, nil

	case compareErr:
		m.isLoading = false
		m.err = msg
		m.state = viewExplore
		m.textArea.Focus()
		return m, nil
	}

	switch m.state {
	case viewMethodSelector:
		m.methodList, cmd = m.methodList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.methodList.SelectedItem().(item); ok {
				k, err := quantile.NewKernel[float64](selected.method)
				if err != nil {
					m.err = err
					break
				}
				m.kernel = k
				m.selected = selected.method
				m.state = viewExplore
				m.err = nil
				cmds = append(cmds, m.textArea.Focus())
			}
		}

	case viewExplore:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" && !m.isLoading {
			input := strings.TrimSpace(m.textArea.Value())
			if input == "" {
				break
			}
			qs, err := config.ParseQuantiles([]string{input})
			if err == nil && len(qs) == 0 {
				err = errors.Wrap(quantile.ErrInvalidArgument, "no quantiles given")
			}
			if err != nil {
				m.err = err
				break
			}
			m.err = nil
			m.lastQs = qs
			m.textArea.Reset()
			m.isLoading = true
			m.requestStartTime = time.Now()
			cmds = append(cmds, m.spinner.Tick, evaluateCmd(m.kernel, input, qs, m.opts.Sample, m.opts.Workers))
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application's UI based on its current state.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.state {
	case viewMethodSelector:
		view := lipgloss.NewStyle().Margin(1, 2).Render(m.methodList.View())
		if m.err != nil {
			view += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		}
		return view

	case viewExplore:
		return m.exploreView()

	case viewCompare:
		return m.compareView()

	default:
		return "Unknown state"
	}
}

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputStyle  = lipgloss.NewStyle().Bold(true)
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m *model) header() string {
	source := m.opts.Source
	if source == "" {
		source = "sample"
	}
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(fmt.Sprintf("Sample: %s (n=%d)", source, len(m.opts.Sample))),
		headerStyle.MarginLeft(1).Render(fmt.Sprintf("Method: %s", m.selected)),
	)
	help := lipgloss.NewStyle().Faint(true).Render(" (tab to change method, ctrl+t to compare, ctrl+c to quit)")
	return status + help + "\n\n"
}

// historyContent renders every evaluation so far.
func (m *model) historyContent() string {
	var b strings.Builder
	for _, ev := range m.history {
		b.WriteString(inputStyle.Render("> "+ev.input) + "\n")
		for _, r := range ev.rows {
			line := fmt.Sprintf("  q=%-8s %s", report.FormatFloat(r.Q), valueStyle.Render(report.FormatFloat(r.Value)))
			if m.opts.Debug {
				line += metaStyle.Render(fmt.Sprintf("  (gamma=%s, j=%d)", report.FormatFloat(r.Gamma), r.J))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// exploreView renders the header, the evaluation history and the input line.
func (m *model) exploreView() string {
	var builder strings.Builder
	builder.WriteString(m.header())
	builder.WriteString(m.viewport.View())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Evaluating... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}
	if m.err != nil {
		builder.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return builder.String()
}

// StartExplorer runs the interactive TUI over opts.Sample and blocks until
// the user quits.
func StartExplorer(opts Options) error {
	if len(opts.Sample) == 0 {
		return errors.Wrap(quantile.ErrInvalidArgument, "explorer needs a non-empty sample")
	}
	if len(opts.Quantiles) == 0 {
		opts.Quantiles = []float64{0.25, 0.5, 0.75}
	}

	p := tea.NewProgram(initialModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "error running explorer")
	}
	return nil
}
