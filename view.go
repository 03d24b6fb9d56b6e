package main

import (
	"strings"

	"charm-sign-tui/config"
	"charm-sign-tui/helpers"
	"charm-sign-tui/netcheck"
	"charm-sign-tui/rpc"
	"charm-sign-tui/views/account"
	"charm-sign-tui/views/banner"
	"charm-sign-tui/views/connect"
	"charm-sign-tui/views/home"
	logview "charm-sign-tui/views/log"
	"charm-sign-tui/views/networks"
	"charm-sign-tui/views/sign"
	"charm-sign-tui/wallet"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	// Selected network
	networkDisplay := lipgloss.NewStyle().
		Foreground(cAccent2).
		Bold(true).
		Render("Network: " + m.network.Name)

	// RPC status dot
	var statusIcon, statusText string
	statusColor := lipgloss.Color("#c01c28")
	switch {
	case m.network.RPCURL == "":
		statusIcon, statusText = "○", "No RPC"
	case m.rpcConnecting:
		statusIcon, statusText = "○", "Connecting..."
	case m.rpcClient == nil:
		statusIcon, statusText = "○", "Connection Failed"
	default:
		statusIcon, statusText = "●", "RPC Connected"
		statusColor = cAccent
	}
	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString("sign dApp", "#7EE787", "#82CFFD"))

	networkWidth := lipgloss.Width(networkDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := networkWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = networkDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Network | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = networkDisplay +
			strings.Repeat(" ", max(1, leftPadding)) +
			titleText +
			strings.Repeat(" ", max(1, rightPadding)) +
			rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// connectButtons describes the two connector buttons
func (m *model) connectButtons() []connect.Button {
	var buttons []connect.Button
	for _, b := range []struct {
		t   wallet.Type
		key string
	}{{wallet.TypeKeystore, "c"}, {wallet.TypeExternal, "x"}} {
		active := m.connectorType == b.t
		buttons = append(buttons, connect.Button{
			Type:       b.t,
			Key:        b.key,
			Active:     active,
			Creating:   active && m.creatingConnector,
			Connecting: active && m.connecting,
			Connected:  active && m.account != "",
		})
	}
	return buttons
}

// banners renders everything that sits between header and page
func (m *model) banners() string {
	var parts []string
	// the wallet side of the comparison only exists once connected
	if m.account != "" {
		report := netcheck.Check(m.network.GenesisHash, m.rpcGenesis, m.walletGenesis)
		parts = append(parts, banner.Inconsistency(m.w, report))
	}
	parts = append(parts,
		banner.Warning(m.w, m.rpcErr),
		banner.Errors(m.w, m.connectorErr, m.connectErr, m.infoErr, m.signErr, m.faucetErr),
	)

	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

func (m *model) accountPage() string {
	buttons := m.connectButtons()
	sections := []string{
		connect.Render(buttons, m.spin.View()),
		connect.Status(buttons),
	}

	if m.passphraseForm != nil {
		sections = append(sections, "", m.passphraseForm.View())
	}

	if m.account == "" {
		return strings.Join(sections, "\n")
	}

	sections = append(sections, "", account.Connected(m.account, m.network, m.copiedMsg))

	info := account.Render(m.info, m.infoLoading, m.spin.View(), m.network, account.Faucet{
		Pending:  m.faucetPending,
		Transfer: m.faucetTransfer,
	})
	if m.showQR {
		// the signature once there is one, the explorer link before that
		content := m.network.AccountURL(m.account)
		if len(m.signature) > 0 {
			content = m.signature.Base64()
		}
		info = lipgloss.JoinHorizontal(lipgloss.Top, info, "    ", rpc.GenerateQRCode(content))
	}
	sections = append(sections, "", info)

	if m.info == nil {
		return strings.Join(sections, "\n")
	}

	sections = append(sections, "", sign.Render(sign.State{
		MessageInput: m.messageInput.View(),
		SchemaInput:  m.schemaInput.View(),
		SchemaErr:    m.schemaErr,
		Signing:      m.signing,
		Message:      m.signedMessage,
		Signature:    m.signature,
		Signer:       m.signer,
	}, m.spin.View()))

	if m.focusedInput == focusNone {
		sections = append(sections, "", hotkeyStyle.Render("press m to write a message, enter to sign"))
	}

	return strings.Join(sections, "\n")
}

func (m *model) View() string {
	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent, nav string

	switch m.activePage {
	case config.PageHome:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(home.Render(m.homeForm))
		nav = home.Nav(m.w - 2)

	case config.PageNetworks:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(networks.Render(m.networks, m.selectedNetworkIdx, m.network.Name))
		nav = networks.Nav(m.w - 2)

	default:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(m.accountPage())
		nav = account.Nav(m.w-2, m.focusedInput != focusNone)
	}

	sections := []string{headerPanel}
	if b := m.banners(); b != "" {
		sections = append(sections, b)
	}
	sections = append(sections, pageContent, nav)

	if m.logEnabled {
		m.logViewport.Height = logview.Height(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport, m.cfg.LogFile))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
