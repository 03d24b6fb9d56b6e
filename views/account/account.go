package account

import (
	"fmt"
	"strings"

	"charm-sign-tui/config"
	"charm-sign-tui/helpers"
	"charm-sign-tui/rpc"
	"charm-sign-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the account page
func Nav(width int, editing bool) string {
	var left string
	if editing {
		left = strings.Join([]string{
			styles.Key("Tab") + " message/schema",
			styles.Key("Enter") + " sign",
			styles.Key("Ctrl+v") + " paste",
			styles.Key("Esc") + " done",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("c") + " keystore",
			styles.Key("x") + " external",
			styles.Key("m") + " message",
			styles.Key("r") + " refresh",
			styles.Key("f") + " faucet",
			styles.Key("y") + " copy sig",
			styles.Key("a") + " copy addr",
			styles.Key("g") + " QR",
			styles.Key("d") + " dismiss",
			styles.Key("n") + " networks",
			styles.Key("h") + " home",
			styles.Key("l") + " logger",
			styles.Key("q") + " quit",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Faucet is the state of the last drop request
type Faucet struct {
	Pending  bool
	Transfer *rpc.PendingTransfer
}

// Connected renders the "Connected to account X on N" line with a hyperlink
// to the account on the network's explorer.
func Connected(account string, network config.Network, copiedMsg string) string {
	addrStyle := lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true)
	// OSC 8 hyperlink: \x1b]8;;URL\x1b\\TEXT\x1b]8;;\x1b\\
	link := fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", network.AccountURL(account), addrStyle.Render(account))

	line := "Connected to account " + link + " on " + lipgloss.NewStyle().Bold(true).Render(network.Name) + "."
	if copiedMsg != "" {
		line += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
	}
	return line
}

// Render renders the account snapshot. Errors are shown as banners by the caller.
func Render(info *rpc.AccountInfo, loading bool, spinnerView string, network config.Network, faucet Faucet) string {
	h := styles.TitleStyle.Render("Account")

	if loading {
		return h + "\n\n" + spinnerView + " querying account info…"
	}
	if info == nil {
		return h + "\n\n" + styles.Muted.Render("No account info loaded.")
	}

	label := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Width(9)
	value := lipgloss.NewStyle().Foreground(styles.CText)

	kind := "externally owned"
	if info.IsContract {
		kind = "contract"
	}

	lines := []string{
		h,
		"",
		label.Render("Address") + value.Render(info.Address),
		label.Render("Nonce") + value.Render(fmt.Sprintf("%d", info.Nonce)),
		label.Render("Balance") + value.Render(helpers.FormatETH(info.Balance)),
		label.Render("Index") + value.Render(fmt.Sprintf("%d", info.Index)),
		label.Render("Kind") + value.Render(kind),
		"",
		styles.Muted.Render("Loaded at " + helpers.LoadedAt(info.LoadedAt, false)),
	}

	if network.IsTestnet() {
		lines = append(lines, "", renderFaucet(faucet, spinnerView))
	}

	return strings.Join(lines, "\n")
}

func renderFaucet(f Faucet, spinnerView string) string {
	muted := styles.Muted
	switch {
	case f.Pending:
		return spinnerView + " requesting test ETH…"
	case f.Transfer != nil:
		status := lipgloss.NewStyle().Foreground(styles.CAccent).Render(string(f.Transfer.Status))
		return fmt.Sprintf("Drop of %s %s", helpers.FormatETH(f.Transfer.Amount), status) +
			muted.Render(" tx "+helpers.ShortenAddr(f.Transfer.Hash))
	default:
		return muted.Render("Press ") + styles.Key("f") + muted.Render(" to request test ETH from the faucet.")
	}
}
