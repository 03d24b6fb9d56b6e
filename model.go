package main

import (
	"io"
	"strings"
	"time"

	"charm-sign-tui/config"
	"charm-sign-tui/rpc"
	"charm-sign-tui/styles"
	"charm-sign-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

const (
	focusNone    = -1
	focusMessage = 0
	focusSchema  = 1
)

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	cfg        config.Config
	activePage config.Page

	// epoch changes whenever the network or the wallet connection changes,
	// netEpoch only when the network does. Wallet results carry epoch, node
	// results netEpoch; results from an older one are dropped.
	epoch    int
	netEpoch int

	// networks
	networks           []config.Network
	network            config.Network
	selectedNetworkIdx int

	// node
	rpcClient     *rpc.Client
	rpcConnecting bool
	rpcGenesis    string
	rpcErr        string

	// connector lifecycle
	connectorType     wallet.Type
	connector         wallet.Connector
	creatingConnector bool
	connectorErr      string
	connecting        bool
	connectErr        string
	passphraseForm    *huh.Form

	// connection
	connection    wallet.Connection
	account       string
	walletGenesis string

	// account info
	spin        spinner.Model
	info        *rpc.AccountInfo
	infoErr     string
	infoLoading bool
	infoSeq     int // only the latest request may set info

	// signing
	messageInput  textinput.Model
	schemaInput   textinput.Model
	focusedInput  int
	schemaErr     string
	signing       bool
	signedMessage wallet.Message
	signature     wallet.Signature
	signer        string
	signErr       string
	showQR        bool

	// faucet
	faucet         *rpc.FaucetClient
	faucetPending  bool
	faucetTransfer *rpc.PendingTransfer
	faucetErr      string

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	// home form
	homeForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model

	// fileLogger mirrors every entry to LOG_FILE
	fileLogger *log.Logger
}

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var tempPassphrase string

// -------------------- INIT --------------------

// newModel creates and initializes a new model from cfg. logFile may be nil.
func newModel(cfg config.Config, logFile io.Writer) model {
	network, ok := cfg.NetworkByName(cfg.Network)
	if !ok {
		network = cfg.Testnet()
	}
	networks := cfg.Networks()
	selectedIdx := 0
	for i, n := range networks {
		if n.Name == network.Name {
			selectedIdx = i
		}
	}

	// message input
	msgIn := textinput.New()
	msgIn.Placeholder = "Text to sign, or hex when a schema is set"
	msgIn.Prompt = "Message: "
	msgIn.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	msgIn.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	msgIn.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	msgIn.Width = 64

	// schema input
	schemaIn := textinput.New()
	schemaIn.Placeholder = "Optional base64 ABI schema"
	schemaIn.Prompt = "Schema:  "
	schemaIn.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	schemaIn.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	schemaIn.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	schemaIn.Width = 64

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	m := model{
		cfg:                cfg,
		activePage:         config.PageAccount,
		networks:           networks,
		network:            network,
		selectedNetworkIdx: selectedIdx,
		rpcConnecting:      network.RPCURL != "",
		messageInput:       msgIn,
		schemaInput:        schemaIn,
		focusedInput:       focusNone,
		spin:               sp,
		faucet:             rpc.NewFaucetClient(cfg.TestnetFaucetURL),
		logEnabled:         cfg.Logger,
		logViewport:        vp,
		logBuffer:          &strings.Builder{},
		logSpinner:         logSpin,
	}

	if logFile != nil {
		m.fileLogger = log.NewWithOptions(logFile, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           log.DebugLevel,
			Formatter:       log.LogfmtFormatter,
		})
	}

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.network.RPCURL != "" {
		cmds = append(cmds, connectRPC(m.network.RPCURL, m.netEpoch))
	}
	return tea.Batch(cmds...)
}
