// Package tui is the interactive fly mode: a bubbletea program with a
// typed command line and live path/altitude panes that redraw after
// every command.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dronelab/tellosim/internal/sim"
	"github.com/dronelab/tellosim/internal/viz"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

type Model struct {
	sim     *sim.Simulator
	editBuf string
	message string
	lastErr string

	width  int
	height int
}

func NewModel(s *sim.Simulator) Model {
	return Model{
		sim:     s,
		message: "type a command and press enter",
		width:   100,
		height:  30,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.editBuf += msg.String()
			}
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.editBuf)
	m.editBuf = ""
	m.lastErr = ""
	if line == "" {
		return m, nil
	}

	switch line {
	case "exit", "quit":
		return m, tea.Quit
	case "reset":
		m.sim.Reset()
		m.message = "simulator reset"
		return m, nil
	}

	cmd, err := sim.Parse(line)
	if err != nil {
		m.lastErr = err.Error()
		return m, nil
	}
	if _, err := m.sim.Apply(cmd); err != nil {
		m.lastErr = err.Error()
		return m, nil
	}
	m.message = "ran " + cmd.String()
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tellosim fly"))
	b.WriteString("\n\n")

	canvasW := m.width - 14
	if canvasW < 40 {
		canvasW = 40
	}
	canvasH := m.height - 16
	if canvasH < 10 {
		canvasH = 10
	}

	b.WriteString(viz.PathPlot(m.sim.Path(), m.sim.FlipMarks(), canvasW, canvasH))
	b.WriteString("\n\n")

	if alts := m.sim.Altitudes(); len(alts) >= 2 {
		b.WriteString(viz.AltitudePlot(alts, canvasW, 6))
		b.WriteString("\n\n")
	}

	st := m.sim.State()
	b.WriteString(viz.StatusLine(st.X, st.Y, st.Z, st.Yaw, st.Airborne))
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString(viz.Red.Render(m.lastErr))
	} else {
		b.WriteString(viz.Dim.Render(m.message))
	}
	b.WriteString("\n\n")

	b.WriteString(promptStyle.Render("> " + m.editBuf + "█"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("commands: takeoff land forward back left right up down cw ccw flip · reset · esc quits"))
	return b.String()
}

// Run starts the fly mode against the given simulator.
func Run(s *sim.Simulator) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
