// cli/compare_test.go
package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/goquantile/quantile"
)

func TestCompareMethods(t *testing.T) {
	got := compareMethods(quantile.Hazen)
	want := []quantile.Method{quantile.Hazen, quantile.Linear, quantile.Weibull, quantile.MedianUnbiased}
	if len(got) != len(want) {
		t.Fatalf("expected %d methods, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	got = compareMethods(quantile.Lower)
	if got[0] != quantile.Lower || got[1] != quantile.Linear {
		t.Errorf("unexpected columns %v", got)
	}
}

func TestCompare_Flow(t *testing.T) {
	m := initialModel(testOptions())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = m2.(*model)
	if m.state != viewCompare || !m.isLoading || cmd == nil {
		t.Fatalf("expected loading compare view; state=%v loading=%v", m.state, m.isLoading)
	}

	msg := compareCmd(compareMethods(m.selected), m.opts.Quantiles, m.opts.Sample)()
	cm, ok := msg.(compareMsg)
	if !ok {
		t.Fatalf("expected compareMsg, got %T", msg)
	}
	if len(cm.columns) != compareColumnCount {
		t.Fatalf("expected %d columns, got %d", compareColumnCount, len(cm.columns))
	}
	if cm.columns[3].method != "median_unbiased" || cm.columns[3].rows[0].Value != 2.5 {
		t.Errorf("unexpected last column %+v", cm.columns[3])
	}

	m2, _ = m.Update(msg)
	m = m2.(*model)
	out := m.View()
	for _, want := range []string{"linear", "hazen", "weibull", "median_unbiased", "esc to go back"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected compare view to contain %q", want)
		}
	}

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = m2.(*model)
	if m.state != viewExplore {
		t.Errorf("expected explore view after esc, got %v", m.state)
	}
}

func TestCompare_Error(t *testing.T) {
	msg := compareCmd([]quantile.Method{quantile.Linear}, []float64{-1}, []float64{1, 2})()
	if _, ok := msg.(compareErr); !ok {
		t.Fatalf("expected compareErr, got %T", msg)
	}

	m := initialModel(testOptions())
	m.state = viewCompare
	m2, _ := m.Update(msg)
	m = m2.(*model)
	if m.state != viewExplore || m.err == nil {
		t.Errorf("expected explore view with error after failed compare")
	}
}
