package main

import (
	"context"
	"fmt"
	"time"

	"charm-sign-tui/helpers"
	"charm-sign-tui/rpc"
	"charm-sign-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the network's node
func connectRPC(url string, epoch int) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error, epoch: epoch}
	}
}

// fetchRPCGenesis asks the node for its genesis hash
func fetchRPCGenesis(client *rpc.Client, epoch int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		hash, err := client.GenesisHash(ctx)
		return rpcGenesisMsg{hash: hash, err: err, epoch: epoch}
	}
}

// createConnector builds a connector of the given type
func createConnector(t wallet.Type, opts wallet.Options, epoch int) tea.Cmd {
	return func() tea.Msg {
		c, err := wallet.New(t, opts)
		return connectorReadyMsg{typ: t, connector: c, err: err, epoch: epoch}
	}
}

// connectWallet asks the connector for a connection
func connectWallet(c wallet.Connector, epoch int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		conn, err := c.Connect(ctx)
		return walletConnectedMsg{connection: conn, err: err, epoch: epoch}
	}
}

// fetchWalletGenesis asks the connection which chain the wallet is on
func fetchWalletGenesis(conn wallet.Connection, epoch int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		hash, err := conn.GenesisHash(ctx)
		return walletGenesisMsg{hash: hash, err: err, epoch: epoch}
	}
}

// loadAccountInfo fetches the account snapshot from the node
func loadAccountInfo(client *rpc.Client, account string, seq int) tea.Cmd {
	return func() tea.Msg {
		info, err := rpc.LoadAccountInfo(client, account)
		return accountInfoMsg{info: info, err: err, seq: seq}
	}
}

// signMessage asks the connection to sign msg for account
func signMessage(conn wallet.Connection, account string, msg wallet.Message, epoch int) tea.Cmd {
	return func() tea.Msg {
		// remote signers may wait for a human to approve
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		sig, err := conn.SignMessage(ctx, account, msg)
		return signedMsg{message: msg, signature: sig, err: err, epoch: epoch}
	}
}

// requestFunds asks the testnet faucet for a drop
func requestFunds(faucet *rpc.FaucetClient, address string, epoch int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		transfer, err := faucet.RequestFunds(ctx, address)
		return faucetMsg{transfer: transfer, err: err, epoch: epoch}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{what: what}
		}
		return nil
	}
}

// clearClipboardAfter waits 2 seconds then asks to clear clipboard feedback
func clearClipboardAfter() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry to the panel logger and the file logger
func (m *model) addLog(logType, message string) {
	var loggers []*log.Logger
	if m.fileLogger != nil {
		loggers = append(loggers, m.fileLogger)
	}
	if m.logEnabled && m.logReady && m.logger != nil {
		loggers = append(loggers, m.logger)
	}

	for _, l := range loggers {
		switch logType {
		case "info":
			l.Info(message)
		case "success":
			l.Info("✓", "msg", message)
		case "error":
			l.Error(message)
		case "warning":
			l.Warn(message)
		case "debug":
			l.Debug(message)
		default:
			l.Print(message)
		}
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// walletOptions assembles connector options for the selected network
func (m model) walletOptions() wallet.Options {
	nodeURL := m.cfg.WalletRPCURL
	if nodeURL == "" {
		nodeURL = m.network.RPCURL
	}
	return wallet.Options{
		KeystoreDir:     m.cfg.KeystoreDir,
		KeystoreAccount: m.cfg.KeystoreAccount,
		Passphrase:      m.cfg.KeystorePassphrase,
		ExternalURL:     m.cfg.ExternalSignerURL,
		NodeURL:         nodeURL,
	}
}

// resetConnection closes the wallet connection and forgets everything derived
// from it. The connector type stays selected unless dropConnector is set.
func (m *model) resetConnection(dropConnector bool) {
	if m.connection != nil {
		if err := m.connection.Close(); err != nil {
			m.addLog("warning", fmt.Sprintf("Closing connection: %v", err))
		}
	}
	m.epoch++
	m.connection = nil
	m.account = ""
	m.walletGenesis = ""
	m.connector = nil
	m.creatingConnector = false
	m.connecting = false
	m.connectorErr = ""
	m.connectErr = ""
	m.passphraseForm = nil

	m.infoSeq++
	m.info = nil
	m.infoErr = ""
	m.infoLoading = false

	m.signature = nil
	m.signer = ""
	m.signErr = ""
	m.signing = false
	m.showQR = false

	m.faucetPending = false
	m.faucetTransfer = nil
	m.faucetErr = ""

	if dropConnector {
		m.connectorType = ""
	}
}

// toggleConnector activates connector type t, or disconnects if it is already active
func (m *model) toggleConnector(t wallet.Type) tea.Cmd {
	if m.connectorType == t {
		m.resetConnection(true)
		m.addLog("info", fmt.Sprintf("Disconnected %s", t.Label()))
		return nil
	}
	m.resetConnection(true)
	return m.activateConnector(t)
}

// activateConnector starts creating a connector of type t
func (m *model) activateConnector(t wallet.Type) tea.Cmd {
	m.connectorType = t
	m.creatingConnector = true
	m.addLog("info", fmt.Sprintf("Creating %s connector for %s", t.Label(), m.network.Name))
	return createConnector(t, m.walletOptions(), m.epoch)
}

// maybeConnect connects the active connector when it has no account yet
func (m *model) maybeConnect() tea.Cmd {
	if m.connector == nil || m.account != "" || m.connecting {
		return nil
	}
	if locker, ok := m.connector.(wallet.Locker); ok && locker.NeedsPassphrase() {
		m.createPassphraseForm()
		return m.passphraseForm.Init()
	}
	m.connecting = true
	m.connectErr = ""
	return connectWallet(m.connector, m.epoch)
}

// setConnection adopts a new connection and kicks off the reads that depend on it
func (m *model) setConnection(conn wallet.Connection) tea.Cmd {
	m.connection = conn
	m.account = ""
	if accts := conn.Accounts(); len(accts) > 0 {
		m.account = accts[0]
	}
	m.walletGenesis = ""
	m.signature = nil
	m.signer = ""

	if m.account == "" {
		m.addLog("warning", "Connection has no account")
		return fetchWalletGenesis(conn, m.epoch)
	}

	m.addLog("success", fmt.Sprintf("Connected to `%s` on %s", helpers.ShortenAddr(m.account), m.network.Name))
	return tea.Batch(m.requestAccountInfo(), fetchWalletGenesis(conn, m.epoch))
}

// requestAccountInfo clears the current info and loads it again
func (m *model) requestAccountInfo() tea.Cmd {
	if m.account == "" || m.rpcClient == nil {
		return nil
	}
	m.infoSeq++
	m.info = nil
	m.infoLoading = true
	return loadAccountInfo(m.rpcClient, m.account, m.infoSeq)
}

// selectNetwork switches to network idx, dropping the connection and re-dialing
func (m *model) selectNetwork(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.networks) {
		return nil
	}
	next := m.networks[idx]
	m.selectedNetworkIdx = idx
	if next.Name == m.network.Name {
		return nil
	}

	activeType := m.connectorType
	m.resetConnection(true)
	m.network = next
	m.addLog("info", fmt.Sprintf("Switched to %s", next.Name))

	if m.rpcClient != nil {
		m.rpcClient.Close()
	}
	m.netEpoch++
	m.rpcClient = nil
	m.rpcGenesis = ""
	m.rpcErr = ""
	m.rpcConnecting = true

	cmds := []tea.Cmd{connectRPC(next.RPCURL, m.netEpoch)}
	// The connector type survives a network switch; its instance does not.
	if activeType != "" {
		cmds = append(cmds, m.activateConnector(activeType))
	}
	return tea.Batch(cmds...)
}

// submitSign validates the inputs and asks the wallet to sign
func (m *model) submitSign() tea.Cmd {
	input := m.messageInput.Value()
	if m.connection == nil || m.account == "" || m.info == nil || input == "" || m.signing {
		return nil
	}
	if m.schemaErr != "" {
		// already shown next to the schema input
		return nil
	}

	msg, err := wallet.BuildMessage(input, m.schemaInput.Value())
	if err != nil {
		m.signErr = helpers.ErrorString(err)
		m.addLog("error", "Cannot build message: "+m.signErr)
		return nil
	}

	m.signErr = ""
	m.signing = true
	m.addLog("info", fmt.Sprintf("Signing %s message with `%s`", msg.Kind, helpers.ShortenAddr(m.account)))
	return signMessage(m.connection, m.account, msg, m.epoch)
}

// validateSchema re-checks the schema input as it is typed
func (m *model) validateSchema() {
	m.schemaErr = ""
	if s := m.schemaInput.Value(); s != "" {
		if _, err := wallet.ParseSchema(s); err != nil {
			m.schemaErr = helpers.ErrorString(err)
		}
	}
}

// requestDrop asks the faucet for test funds for the loaded account
func (m *model) requestDrop() tea.Cmd {
	if !m.network.IsTestnet() {
		m.addLog("warning", "Faucet is only available on testnet")
		return nil
	}
	if m.info == nil || m.faucetPending {
		return nil
	}
	m.faucetPending = true
	m.faucetErr = ""
	return requestFunds(m.faucet, m.info.Address, m.epoch)
}

// dismissBanners clears all error banners
func (m *model) dismissBanners() {
	m.connectorErr = ""
	m.connectErr = ""
	m.rpcErr = ""
	m.infoErr = ""
	m.signErr = ""
	m.faucetErr = ""
}

// createPassphraseForm prompts for the keystore passphrase
func (m *model) createPassphraseForm() {
	tempPassphrase = ""

	m.passphraseForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keystore Passphrase").
				Description(fmt.Sprintf("Unlock an account in %s", m.cfg.KeystoreDir)).
				EchoMode(huh.EchoModePassword).
				Value(&tempPassphrase),
		),
	).WithTheme(huh.ThemeCatppuccin())
}
