// Package tui is the terminal front end of the calculator: one text input
// per loan parameter, bound to a form.Controller.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mortgage/internal/core"
	"mortgage/internal/form"
)

// Model renders the form and feeds every keystroke to the controller.
type Model struct {
	ctx        context.Context
	controller *form.Controller
	fields     []form.Field
	inputs     []textinput.Model
	focus      int
	status     string
	width      int
}

// NewModel builds inputs pre-filled from the controller's parameters.
func NewModel(ctx context.Context, c *form.Controller) Model {
	fields := form.Fields()
	params := c.Params()

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 32
		ti.Width = 20
		ti.SetValue(formatInput(f.Value(params)))
		ti.CursorEnd()
		if f.IsCurrency() {
			ti.Placeholder = "$0"
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		ctx:        ctx,
		controller: c,
		fields:     fields,
		inputs:     inputs,
	}
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.moveFocus(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.moveFocus(-1)
		}
	}

	return m, m.updateFocused(msg)
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.status = ""
	return m.inputs[m.focus].Focus()
}

// updateFocused forwards msg to the focused input and submits its text when
// it changed.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	after := m.inputs[m.focus].Value()
	if after == before {
		return cmd
	}

	if m.controller.Edit(m.ctx, m.fields[m.focus], after) {
		m.status = ""
	} else if strings.TrimSpace(after) != "" {
		m.status = "not a number, keeping the last value"
	} else {
		m.status = ""
	}
	return cmd
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Mortgage Calculator"))
	b.WriteString("\n")

	for i, f := range m.fields {
		label := LabelStyle
		if i == m.focus {
			label = FocusedLabelStyle
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.Label()), m.inputs[i].View()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(StatusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab/↓ next • shift+tab/↑ previous • esc quit"))
	b.WriteString("\n")

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model) renderResults() string {
	snap := m.controller.Snapshot()
	row := func(label string, v float64) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			LabelStyle.Render(label),
			FigureStyle.Render(core.FormatCurrency(v)))
	}

	lines := []string{
		HeadlineStyle.Render("Monthly Payment  " + core.FormatCurrency(snap.Result.MonthlyWithExtras)),
		"",
		row("Principal & Interest", snap.Result.MonthlyPayment),
		row("Amount Financed", snap.Params.FinancedAmount()),
		row("Down Payment", snap.Params.DownPayment),
		row("Total Payment", snap.Result.TotalPayment),
		row("Total Interest", snap.Result.TotalInterest),
	}
	return ResultsBoxStyle.Render(strings.Join(lines, "\n"))
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, c *form.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, c), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
