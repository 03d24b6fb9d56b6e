package networks

import (
	"strings"

	"charm-sign-tui/config"
	"charm-sign-tui/helpers"
	"charm-sign-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the network picker
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " switch",
		styles.Key("h") + " home",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the list of networks, marking the selected and the active one
func Render(networks []config.Network, selectedIdx int, active string) string {
	h := styles.TitleStyle.Render("Networks")

	lines := []string{h, ""}
	lines = append(lines, styles.Muted.Render("Switching drops the wallet connection."))
	lines = append(lines, "")

	for i, n := range networks {
		var marker string
		if n.Name == active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		} else {
			marker = styles.Muted.Render("○ ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		detailStyle := styles.Muted

		if i == selectedIdx {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			detailStyle = detailStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		name := n.Name
		if n.IsTestnet() {
			name += " (faucet)"
		}
		lines = append(lines, marker+nameStyle.Render(name))
		lines = append(lines, "  "+detailStyle.Render("rpc     "+n.RPCURL))
		lines = append(lines, "  "+detailStyle.Render("genesis "+helpers.ShortenAddr(n.GenesisHash)))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
