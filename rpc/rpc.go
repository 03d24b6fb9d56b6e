package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"charm-sign-tui/helpers"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// ErrNoClient is returned when a read is attempted before the node is connected
var ErrNoClient = errors.New("no RPC client")

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// NewClient wraps an already dialed go-ethereum RPC client
func NewClient(c *gethrpc.Client, url string) *Client {
	return &Client{Client: ethclient.NewClient(c), URL: url}
}

// GenesisHash returns the hash of block 0 as reported by the node
func (c *Client) GenesisHash(ctx context.Context) (string, error) {
	if c == nil || c.Client == nil {
		return "", ErrNoClient
	}

	// Read the hash field directly: recomputing it from the decoded header
	// would hide what the node actually reports.
	var block *struct {
		Hash common.Hash `json:"hash"`
	}
	if err := c.Client.Client().CallContext(ctx, &block, "eth_getBlockByNumber", "0x0", false); err != nil {
		return "", fmt.Errorf("failed to query genesis block: %w", err)
	}
	if block == nil {
		return "", errors.New("node returned no genesis block")
	}
	return block.Hash.Hex(), nil
}

// AccountInfo is a read-only snapshot of an account
type AccountInfo struct {
	Address    string
	Nonce      uint64
	Balance    *big.Int
	Index      uint64 // block height the snapshot was read at
	IsContract bool
	LoadedAt   time.Time
}

// LoadAccountInfo fetches nonce, balance and code presence for an address
func LoadAccountInfo(client *Client, address string) (AccountInfo, error) {
	return LoadAccountInfoWithTimeout(client, address, 12*time.Second)
}

// LoadAccountInfoWithTimeout fetches account info with a custom timeout.
// All values are read at the same block.
func LoadAccountInfoWithTimeout(client *Client, address string, timeout time.Duration) (AccountInfo, error) {
	if client == nil || client.Client == nil {
		return AccountInfo{}, ErrNoClient
	}
	if !helpers.IsValidEthAddress(address) {
		return AccountInfo{}, fmt.Errorf("invalid account address %q", address)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	addr := common.HexToAddress(address)

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to load block number: %w", err)
	}
	at := new(big.Int).SetUint64(head)

	balance, err := client.BalanceAt(ctx, addr, at)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to load balance: %w", err)
	}

	nonce, err := client.NonceAt(ctx, addr, at)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to load nonce: %w", err)
	}

	code, err := client.CodeAt(ctx, addr, at)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to load code: %w", err)
	}

	return AccountInfo{
		Address:    addr.Hex(),
		Nonce:      nonce,
		Balance:    balance,
		Index:      head,
		IsContract: len(code) > 0,
		LoadedAt:   time.Now(),
	}, nil
}
