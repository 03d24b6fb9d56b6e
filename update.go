package main

import (
	"errors"
	"fmt"
	"time"

	"charm-sign-tui/config"
	"charm-sign-tui/helpers"
	"charm-sign-tui/views/home"
	logview "charm-sign-tui/views/log"
	"charm-sign-tui/wallet"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The passphrase form owns the keyboard while it is open
	if m.passphraseForm != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.updatePassphraseForm(msg)
		}
	}

	if m.activePage == config.PageHome && m.homeForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() == "esc" {
				m.homeForm = nil
				m.activePage = config.PageAccount
				return m, nil
			}
			return m.updateHomeForm(msg)
		}
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		// Create logger that writes to our buffer
		m.logger = log.NewWithOptions(m.logBuffer, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
		})
		m.logger.SetLevel(log.DebugLevel)
		m.logger.SetStyles(&log.Styles{
			Timestamp: lipgloss.NewStyle().Foreground(cMuted),
			Caller:    lipgloss.NewStyle().Faint(true),
			Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
			Message:   lipgloss.NewStyle().Foreground(cText),
			Key:       lipgloss.NewStyle().Foreground(cAccent),
			Value:     lipgloss.NewStyle().Foreground(cText),
			Separator: lipgloss.NewStyle().Faint(true),
			Levels: map[log.Level]lipgloss.Style{
				log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
				log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
				log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
				log.ErrorLevel: lipgloss.NewStyle().Foreground(cDanger).SetString("ERROR"),
			},
		})
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		if m.logEnabled {
			m.logViewport.Width = max(0, msg.Width-6)
			m.logViewport.Height = logview.Height(msg.Height)
			m.updateLogViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case rpcConnectedMsg:
		if msg.epoch != m.netEpoch {
			if msg.client != nil {
				msg.client.Close()
			}
			return m, nil
		}
		m.rpcConnecting = false
		if msg.err != nil {
			m.rpcClient = nil
			m.rpcErr = "RPC error: " + helpers.ErrorString(msg.err)
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			return m, nil
		}
		m.rpcClient = msg.client
		m.rpcErr = ""
		m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL))
		return m, tea.Batch(fetchRPCGenesis(m.rpcClient, m.netEpoch), m.requestAccountInfo())

	case rpcGenesisMsg:
		if msg.epoch != m.netEpoch {
			return m, nil
		}
		if msg.err != nil {
			m.rpcGenesis = ""
			m.rpcErr = "RPC error: " + helpers.ErrorString(msg.err)
			m.addLog("error", "Fetching genesis hash via RPC failed: "+msg.err.Error())
			return m, nil
		}
		m.rpcGenesis = msg.hash
		m.addLog("debug", "RPC genesis hash "+msg.hash)
		return m, nil

	case connectorReadyMsg:
		if msg.epoch != m.epoch || msg.typ != m.connectorType {
			m.addLog("debug", "Dropping connector for "+string(msg.typ))
			return m, nil
		}
		m.creatingConnector = false
		if msg.err != nil {
			m.connector = nil
			m.connectorErr = "Connector error: " + helpers.ErrorString(msg.err)
			m.addLog("error", m.connectorErr)
			return m, nil
		}
		m.connector = msg.connector
		m.addLog("info", msg.typ.Label()+" ready")
		// Connect right away when nothing is connected yet.
		return m, m.maybeConnect()

	case walletConnectedMsg:
		if msg.epoch != m.epoch {
			if msg.connection != nil {
				_ = msg.connection.Close()
			}
			return m, nil
		}
		m.connecting = false
		if msg.err != nil {
			if errors.Is(msg.err, wallet.ErrPassphraseRequired) {
				m.createPassphraseForm()
				return m, m.passphraseForm.Init()
			}
			m.connectErr = "Connection error: " + helpers.ErrorString(msg.err)
			m.addLog("error", m.connectErr)
			// a rejected passphrase was forgotten, ask again
			if locker, ok := m.connector.(wallet.Locker); ok && locker.NeedsPassphrase() {
				return m, m.maybeConnect()
			}
			return m, nil
		}
		m.connectErr = ""
		return m, m.setConnection(msg.connection)

	case walletGenesisMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		if msg.err != nil {
			m.walletGenesis = ""
			if !errors.Is(msg.err, wallet.ErrNoNode) {
				m.addLog("warning", "Wallet genesis hash unavailable: "+msg.err.Error())
			}
			return m, nil
		}
		m.walletGenesis = msg.hash
		m.addLog("debug", "Wallet genesis hash "+msg.hash)
		return m, nil

	case accountInfoMsg:
		if msg.seq != m.infoSeq {
			m.addLog("debug", "Dropping stale account info")
			return m, nil
		}
		m.infoLoading = false
		if msg.err != nil {
			m.info = nil
			m.infoErr = "Error querying account info: " + helpers.DecodeURI(helpers.ErrorString(msg.err))
			m.addLog("error", m.infoErr)
			return m, nil
		}
		info := msg.info
		m.info = &info
		m.infoErr = ""
		m.addLog("success", fmt.Sprintf("Loaded `%s` - %s at block %d", helpers.ShortenAddr(info.Address), helpers.FormatETH(info.Balance), info.Index))
		return m, nil

	case signedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.signing = false
		if msg.err != nil {
			m.signature = nil
			m.signer = ""
			m.signErr = "Signing failed: " + helpers.ErrorString(msg.err)
			m.addLog("error", m.signErr)
			return m, nil
		}
		m.signErr = ""
		m.signedMessage = msg.message
		m.signature = msg.signature
		m.signer = ""
		if addr, err := msg.signature.Recover(msg.message); err == nil {
			m.signer = addr.Hex()
		} else {
			m.addLog("warning", "Cannot recover signer: "+err.Error())
		}
		m.addLog("success", "Message signed")
		return m, nil

	case faucetMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.faucetPending = false
		if msg.err != nil {
			m.faucetErr = "Faucet error: " + helpers.ErrorString(msg.err)
			m.addLog("error", m.faucetErr)
			return m, nil
		}
		transfer := msg.transfer
		m.faucetTransfer = &transfer
		m.addLog("success", fmt.Sprintf("Faucet drop submitted `%s`", helpers.ShortenAddr(transfer.Hash)))
		return m, nil

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied " + msg.what + " to clipboard"
		m.copiedMsgTime = time.Now()
		return m, clearClipboardAfter()

	case clearClipboardMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Forward anything else (form steps, cursor blink) to whatever has focus
	switch {
	case m.passphraseForm != nil:
		return m.updatePassphraseForm(msg)
	case m.activePage == config.PageHome && m.homeForm != nil:
		return m.updateHomeForm(msg)
	}
	return m, m.updateFocusedInput(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.focusedInput != focusNone {
		return m.handleInputKey(msg)
	}

	// global keys
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "l", "L":
		m.logEnabled = !m.logEnabled
		if m.logEnabled {
			if m.w > 0 {
				m.logViewport.Width = m.w - 6
			}
			m.logReady = false
			return m, tea.Batch(initLogViewport(), m.logSpinner.Tick)
		}
		if m.logBuffer != nil {
			m.logBuffer.Reset()
		}
		m.logger = nil
		m.logReady = false
		return m, nil

	case "pageup", "pagedown":
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case "h", "H":
		m.activePage = config.PageHome
		m.homeForm = home.CreateForm(m.network.Name)
		return m, nil

	case "d", "D":
		m.dismissBanners()
		return m, nil
	}

	switch m.activePage {
	case config.PageNetworks:
		switch msg.String() {
		case "up", "k":
			if m.selectedNetworkIdx > 0 {
				m.selectedNetworkIdx--
			}
		case "down", "j":
			if m.selectedNetworkIdx < len(m.networks)-1 {
				m.selectedNetworkIdx++
			}
		case "enter":
			m.activePage = config.PageAccount
			return m, m.selectNetwork(m.selectedNetworkIdx)
		case "esc":
			m.activePage = config.PageAccount
		}
		return m, nil

	case config.PageAccount:
		switch msg.String() {
		case "c", "C":
			return m, m.toggleConnector(wallet.TypeKeystore)
		case "x", "X":
			return m, m.toggleConnector(wallet.TypeExternal)
		case "n", "N":
			m.activePage = config.PageNetworks
			for i, n := range m.networks {
				if n.Name == m.network.Name {
					m.selectedNetworkIdx = i
				}
			}
			return m, nil
		case "m", "M", "tab":
			// the sign panel only shows once account info is loaded
			if m.account == "" || m.info == nil {
				return m, nil
			}
			return m, m.focusInput(focusMessage)
		case "enter":
			return m, m.submitSign()
		case "r", "R":
			if m.account == "" {
				return m, nil
			}
			m.addLog("info", "Refreshing account info")
			return m, m.requestAccountInfo()
		case "f", "F":
			return m, m.requestDrop()
		case "y", "Y":
			if len(m.signature) == 0 {
				return m, nil
			}
			return m, copyToClipboard(m.signature.Base64(), "signature")
		case "a", "A":
			if m.account == "" {
				return m, nil
			}
			return m, copyToClipboard(m.account, "address")
		case "g", "G":
			if m.account != "" {
				m.showQR = !m.showQR
			}
			return m, nil
		}
	}

	return m, nil
}

// handleInputKey routes keys while the message or schema input has focus
func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		return m, nil
	case "tab", "shift+tab":
		next := focusSchema
		if m.focusedInput == focusSchema {
			next = focusMessage
		}
		return m, m.focusInput(next)
	case "enter":
		m.blurInputs()
		return m, m.submitSign()
	case "ctrl+v":
		text, err := clipboard.ReadAll()
		if err != nil {
			m.addLog("warning", "Clipboard read failed: "+err.Error())
			return m, nil
		}
		if m.focusedInput == focusSchema {
			m.schemaInput.SetValue(m.schemaInput.Value() + text)
			m.validateSchema()
		} else {
			m.messageInput.SetValue(m.messageInput.Value() + text)
		}
		return m, nil
	}

	cmd := m.updateFocusedInput(msg)
	if m.focusedInput == focusSchema {
		m.validateSchema()
	}
	return m, cmd
}

func (m *model) focusInput(which int) tea.Cmd {
	m.focusedInput = which
	if which == focusSchema {
		m.messageInput.Blur()
		return m.schemaInput.Focus()
	}
	m.schemaInput.Blur()
	return m.messageInput.Focus()
}

func (m *model) blurInputs() {
	m.focusedInput = focusNone
	m.messageInput.Blur()
	m.schemaInput.Blur()
}

func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focusedInput {
	case focusMessage:
		m.messageInput, cmd = m.messageInput.Update(msg)
	case focusSchema:
		m.schemaInput, cmd = m.schemaInput.Update(msg)
	}
	return cmd
}

func (m *model) updatePassphraseForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.passphraseForm = nil
		m.addLog("info", "Passphrase entry cancelled")
		m.resetConnection(true)
		return m, nil
	}

	form, cmd := m.passphraseForm.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return m, cmd
	}
	m.passphraseForm = f

	switch m.passphraseForm.State {
	case huh.StateCompleted:
		m.passphraseForm = nil
		if locker, ok := m.connector.(wallet.Locker); ok {
			locker.SetPassphrase(tempPassphrase)
		}
		tempPassphrase = ""
		return m, m.maybeConnect()
	case huh.StateAborted:
		m.passphraseForm = nil
		m.resetConnection(true)
		return m, nil
	}
	return m, cmd
}

func (m *model) updateHomeForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.homeForm.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return m, cmd
	}
	m.homeForm = f

	if m.homeForm.State != huh.StateCompleted {
		return m, cmd
	}
	m.homeForm = nil
	switch home.TempSelection {
	case home.SelectNetworks:
		m.activePage = config.PageNetworks
	case home.SelectQuit:
		return m, tea.Quit
	default:
		m.activePage = config.PageAccount
	}
	return m, nil
}
