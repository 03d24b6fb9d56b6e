// Package banner renders the error and warning boxes shown above the page.
package banner

import (
	"strings"

	"charm-sign-tui/netcheck"
	"charm-sign-tui/styles"
)

const notAvailable = "N/A"

// Errors renders one danger banner per non-empty message
func Errors(width int, messages ...string) string {
	var out []string
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		out = append(out, styles.DangerBanner.Width(max(0, width-2)).Render(msg))
	}
	return strings.Join(out, "\n")
}

// Warning renders a warning banner, or nothing for an empty message
func Warning(width int, msg string) string {
	if msg == "" {
		return ""
	}
	return styles.WarnBanner.Width(max(0, width-2)).Render(msg)
}

// Inconsistency renders the genesis hash warning; empty when the report is consistent
func Inconsistency(width int, r netcheck.Report) string {
	if !r.Inconsistent() {
		return ""
	}
	lines := []string{
		"Inconsistent network parameters detected!",
		"• Reported by wallet: " + orNA(r.Wallet),
		"• Fetched via RPC: " + orNA(r.RPC),
		"• Expected for selected network: " + styles.Code.Render(r.Expected),
	}
	return styles.WarnBanner.Width(max(0, width-2)).Render(strings.Join(lines, "\n"))
}

func orNA(hash string) string {
	if hash == "" {
		return notAvailable
	}
	return styles.Code.Render(hash)
}
