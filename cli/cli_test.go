// cli/cli_test.go
package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/goquantile/quantile"
)

func testOptions() Options {
	return Options{
		Sample:    []float64{1, 2, 3, 4},
		Source:    "test.txt",
		Method:    quantile.Linear,
		Quantiles: []float64{0.5},
		Debug:     true,
	}
}

func TestInitialModel(t *testing.T) {
	m := initialModel(testOptions())

	if m.state != viewMethodSelector {
		t.Errorf("Expected initial state to be viewMethodSelector, got %v", m.state)
	}
	if got := len(m.methodList.Items()); got != 13 {
		t.Errorf("Expected 13 methods, got %d", got)
	}
	selected, ok := m.methodList.SelectedItem().(item)
	if !ok || selected.method != quantile.Linear {
		t.Errorf("Expected linear to be preselected, got %v", m.methodList.SelectedItem())
	}
}

func TestUpdate_QuitAndResize(t *testing.T) {
	m := initialModel(testOptions())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = newModel.(*model)
	if m.width != 100 || m.height != 40 {
		t.Errorf("Expected width 100 and height 40, got %d and %d", m.width, m.height)
	}
}

func TestMethodSelector_FilterKeepsQ(t *testing.T) {
	m := initialModel(testOptions())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	// "/" starts filtering the method list.
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = m2.(*model)
	if m.methodList.FilterState() != list.Filtering {
		t.Fatalf("expected the list to be filtering, got %v", m.methodList.FilterState())
	}

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = m2.(*model)
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatalf("typing q into the filter quit the program")
		}
	}
	if got := m.methodList.FilterValue(); got != "q" {
		t.Errorf("expected filter text %q, got %q", "q", got)
	}
}

func TestExplore_Flow(t *testing.T) {
	m := initialModel(testOptions())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	// Pick the preselected method.
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)
	if m.state != viewExplore || m.kernel == nil {
		t.Fatalf("expected explore view with a kernel; state=%v", m.state)
	}
	if name := m.kernel.Name(); name != "linear" {
		t.Fatalf("expected linear kernel, got %s", name)
	}

	// Typing q in the input must not quit.
	m.textArea.SetValue("0.5, p75")
	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = m2.(*model)
	if m.state != viewExplore {
		t.Fatalf("typing q left the explore view")
	}
	_ = cmd
	m.textArea.SetValue("0.5, p75")

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)
	if !m.isLoading {
		t.Fatalf("expected loading after submitting quantiles")
	}
	if len(m.lastQs) != 2 || m.lastQs[1] != 0.75 {
		t.Fatalf("expected parsed quantiles [0.5 0.75], got %v", m.lastQs)
	}

	msg := evaluateCmd(m.kernel, "0.5, p75", m.lastQs, m.opts.Sample, 2)()
	ev, ok := msg.(evaluatedMsg)
	if !ok {
		t.Fatalf("expected evaluatedMsg, got %T", msg)
	}
	if ev.rows[0].Value != 2.5 || ev.rows[1].Value != 3.25 {
		t.Fatalf("unexpected values %+v", ev.rows)
	}

	m2, _ = m.Update(msg)
	m = m2.(*model)
	if m.isLoading || len(m.history) != 1 {
		t.Fatalf("expected one evaluation in history; loading=%v history=%d", m.isLoading, len(m.history))
	}

	out := m.View()
	for _, want := range []string{"Method: linear", "test.txt", "> 0.5, p75", "3.25", "gamma=0.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q; got:\n%s", want, out)
		}
	}

	// Tab goes back to the method list.
	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = m2.(*model)
	if m.state != viewMethodSelector {
		t.Errorf("expected method selector after tab, got %v", m.state)
	}
}

func TestExplore_InvalidInput(t *testing.T) {
	m := initialModel(testOptions())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)

	m.textArea.SetValue("half")
	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)
	if m.isLoading || m.err == nil {
		t.Fatalf("expected an inline error and no evaluation; loading=%v err=%v", m.isLoading, m.err)
	}
	if !strings.Contains(m.View(), "Error") {
		t.Errorf("expected error in view")
	}

	m2, _ = m.Update(evaluateErr(errors.New("boom")))
	m = m2.(*model)
	if m.err == nil || m.state != viewExplore {
		t.Errorf("expected explore view to keep the error")
	}
}

func TestView_Initializing(t *testing.T) {
	m := initialModel(testOptions())
	if view := m.View(); view != "Initializing..." {
		t.Errorf("Expected view to be 'Initializing...', got '%s'", view)
	}
	m.width = 100
	if view := m.View(); !strings.Contains(view, "Select a Method") {
		t.Errorf("Expected view to contain 'Select a Method', got '%s'", view)
	}
}

func TestStartExplorer_EmptySample(t *testing.T) {
	if err := StartExplorer(Options{}); !quantile.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}
