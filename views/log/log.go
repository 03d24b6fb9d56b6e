package log

import (
	"fmt"

	"charm-sign-tui/helpers"
	"charm-sign-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// reservedHeight covers header, banners, nav and the panel's own chrome
const reservedHeight = 10

// Height is the number of log lines that fit for a terminal of height h
func Height(h int) int {
	available := helpers.Max(5, h-reservedHeight)
	// at most a third of the screen, never more than 15 lines
	return helpers.Min(available, helpers.Min(h/3, 15))
}

// Render renders the log panel. file is the LOG_FILE path, if any.
func Render(width, height int, logReady bool, logSpinnerView string, vp viewport.Model, file string) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")
	if file != "" {
		title += styles.Muted.Render(" → " + file)
	}

	logPanelHeight := Height(height)
	vp.Height = logPanelHeight

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(logPanelHeight + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + logSpinnerView)
	}

	if vp.TotalLineCount() > vp.Height {
		title += lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + "\n\n" + vp.View())
}
