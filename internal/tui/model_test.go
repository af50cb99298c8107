package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

func newTestModel() (Model, *form.Controller) {
	c := form.New()
	return NewModel(context.Background(), c), c
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelPrefillsInputs(t *testing.T) {
	m, _ := newTestModel()

	want := map[form.Field]string{
		form.FieldPrincipal:   "300000",
		form.FieldDownPayment: "60000",
		form.FieldAnnualRate:  "3.5",
		form.FieldTermYears:   "30",
		form.FieldPropertyTax: "0",
		form.FieldInsurance:   "0",
	}
	for i, f := range m.fields {
		if got := m.inputs[i].Value(); got != want[f] {
			t.Errorf("%s input = %q, want %q", f, got, want[f])
		}
	}
	if !m.inputs[0].Focused() {
		t.Error("first input should be focused")
	}
}

func TestTypingRecomputes(t *testing.T) {
	m, c := newTestModel()

	m = send(m, runes("0"))

	if got := c.Params().Principal; got != 3000000 {
		t.Fatalf("principal = %v, want 3000000", got)
	}
	if c.Result() != core.Compute(c.Params()) {
		t.Error("result not recomputed")
	}
	if !strings.Contains(m.View(), core.FormatCurrency(c.Result().MonthlyWithExtras)) {
		t.Error("view does not show the new payment")
	}
}

func TestClearingInputKeepsLastAcceptedValue(t *testing.T) {
	m, c := newTestModel()
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})

	if m.fields[m.focus] != form.FieldDownPayment {
		t.Fatalf("focus on %s, want down payment", m.fields[m.focus])
	}

	for i := 0; i < 5; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}

	if m.inputs[m.focus].Value() != "" {
		t.Fatalf("input = %q, want empty", m.inputs[m.focus].Value())
	}
	if got := c.Params().DownPayment; got != 6 {
		t.Errorf("down payment = %v, want 6 (last accepted keystroke)", got)
	}
	if c.Revision() != 4 {
		t.Errorf("revision = %d, want 4", c.Revision())
	}
}

func TestInvalidTextShowsStatus(t *testing.T) {
	m, c := newTestModel()
	for i := 0; i < 6; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	rev := c.Revision()

	m = send(m, runes("abc"))

	if c.Revision() != rev {
		t.Error("non-numeric text should not recompute")
	}
	if m.status == "" || !strings.Contains(m.View(), m.status) {
		t.Error("expected a status hint for rejected text")
	}
}

func TestFocusWraps(t *testing.T) {
	m, _ := newTestModel()

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != len(m.inputs)-1 {
		t.Errorf("focus = %d, want last input", m.focus)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.focus != 0 {
		t.Errorf("focus = %d, want 0", m.focus)
	}
	for i, in := range m.inputs {
		if in.Focused() != (i == 0) {
			t.Errorf("input %d focused = %v", i, in.Focused())
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel()

	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("key %v returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v should quit", k)
		}
	}
}

func TestResultsShowDownPayment(t *testing.T) {
	m, _ := newTestModel()

	view := m.View()
	if !strings.Contains(view, "Down Payment") || !strings.Contains(view, "$60,000") {
		t.Errorf("view missing the down payment:\n%s", view)
	}
}
