package connect

import (
	"strings"

	"charm-sign-tui/styles"
	"charm-sign-tui/wallet"

	"github.com/charmbracelet/lipgloss"
)

// Button is the state of one connector button
type Button struct {
	Type wallet.Type
	Key  string

	// Active is set when this connector type is the selected one.
	Active     bool
	Creating   bool
	Connecting bool
	Connected  bool
}

// Label is the text shown on the button
func (b Button) Label() string {
	switch {
	case b.Creating:
		return "Preparing " + b.Type.Label() + "…"
	case b.Connecting:
		return "Connecting " + b.Type.Label() + "…"
	case b.Active:
		return "Disconnect " + b.Type.Label()
	default:
		return "Connect " + b.Type.Label()
	}
}

var (
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#888B7E")).
			Padding(0, 3).
			MarginRight(2)

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#F25D94")).
				Underline(true)

	busyButtonStyle = buttonStyle.
			Background(lipgloss.Color("#874BFD"))
)

// Render renders the connector buttons side by side
func Render(buttons []Button, spinnerView string) string {
	var rendered []string
	busy := false
	for _, b := range buttons {
		style := buttonStyle
		switch {
		case b.Creating || b.Connecting:
			style = busyButtonStyle
			busy = true
		case b.Active:
			style = activeButtonStyle
		}
		rendered = append(rendered, style.Render("["+b.Key+"] "+b.Label()))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if busy {
		row += " " + spinnerView
	}
	return row
}

// Status is the one line summary under the buttons
func Status(buttons []Button) string {
	for _, b := range buttons {
		if b.Active && b.Connected {
			return lipgloss.NewStyle().Foreground(styles.CAccent).Render("● " + b.Type.Label() + " connected")
		}
		if b.Active {
			return lipgloss.NewStyle().Foreground(styles.CWarn).Render("○ " + b.Type.Label() + " not connected")
		}
	}
	return styles.Muted.Render(strings.Join([]string{
		"No wallet connected.",
		"Press " + styles.Key("c") + " or " + styles.Key("x") + " to connect.",
	}, " "))
}
