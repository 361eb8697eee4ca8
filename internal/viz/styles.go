package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	Dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// StatusLine is the one-line position readout shared by the REPL and
// the fly-mode status bar.
func StatusLine(x, y, z, yaw float64, airborne bool) string {
	mode := Yellow.Render("landed")
	if airborne {
		mode = Green.Render("airborne")
	}
	pos := "(" + trim(x) + ", " + trim(y) + ", " + trim(z) + ") cm"
	return Dim.Render("pos ") + Cyan.Render(pos) +
		Dim.Render("  yaw ") + Cyan.Render(trim(yaw)+"°") +
		Dim.Render("  ") + mode
}

func trim(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
