// Package wallet mediates between the app and a wallet: a Connector produces
// a Connection, and a Connection reports its accounts and genesis hash and
// signs messages. The app never builds a Connection itself.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"charm-sign-tui/rpc"
)

// Type names a kind of connector
type Type string

const (
	TypeKeystore Type = "keystore"
	TypeExternal Type = "external"
)

// Label is the human-readable connector name used on buttons
func (t Type) Label() string {
	switch t {
	case TypeKeystore:
		return "Keystore Wallet"
	case TypeExternal:
		return "External Signer"
	}
	return string(t)
}

var (
	ErrNoAccount          = errors.New("wallet has no accounts")
	ErrPassphraseRequired = errors.New("passphrase required")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrUnknownConnector   = errors.New("unknown connector type")
	ErrNoNode             = errors.New("wallet has no node configured")
)

// Connector hands out connections to one wallet
type Connector interface {
	Type() Type
	Connect(ctx context.Context) (Connection, error)
}

// Connection is a live session with a wallet
type Connection interface {
	// Accounts lists the connected accounts, preferred account first
	Accounts() []string
	// GenesisHash is the genesis hash of the chain the wallet is on
	GenesisHash(ctx context.Context) (string, error)
	SignMessage(ctx context.Context, account string, msg Message) (Signature, error)
	Close() error
}

// Locker is implemented by connectors that need a passphrase before connecting
type Locker interface {
	NeedsPassphrase() bool
	SetPassphrase(passphrase string)
}

// GenesisSource reports a chain's genesis hash
type GenesisSource interface {
	GenesisHash(ctx context.Context) (string, error)
}

// Options configures connector creation
type Options struct {
	KeystoreDir     string
	KeystoreAccount string
	Passphrase      string
	ExternalURL     string
	// NodeURL is the node the wallet itself talks to
	NodeURL string
}

// New creates a connector of the given type
func New(t Type, opts Options) (Connector, error) {
	node := NodeGenesis(opts.NodeURL)
	switch t {
	case TypeKeystore:
		c, err := NewKeystoreConnector(opts.KeystoreDir, opts.KeystoreAccount, opts.Passphrase, node)
		if err != nil {
			return nil, err
		}
		return c, nil
	case TypeExternal:
		c, err := NewExternalConnector(opts.ExternalURL, node)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownConnector, t)
}

// nodeGenesis dials its node on first use
type nodeGenesis struct {
	mu     sync.Mutex
	url    string
	client *rpc.Client
}

// NodeGenesis returns a GenesisSource backed by the node at url
func NodeGenesis(url string) GenesisSource {
	return &nodeGenesis{url: url}
}

func (n *nodeGenesis) GenesisHash(ctx context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.url == "" {
		return "", ErrNoNode
	}
	if n.client == nil {
		result := rpc.Connect(n.url)
		if result.Error != nil {
			return "", fmt.Errorf("failed to reach wallet node: %w", result.Error)
		}
		n.client = result.Client
	}
	return n.client.GenesisHash(ctx)
}
