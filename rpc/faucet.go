package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// DropAmount is what one faucet drop is expected to credit (0.05 ETH)
var DropAmount = big.NewInt(50_000_000_000_000_000)

// TransferStatus is the lifecycle state of a transfer
type TransferStatus string

// TransferPending is the only state a drop is reported in; it is not followed on chain
const TransferPending TransferStatus = "pending"

// PendingTransfer describes a faucet drop that was submitted but not yet seen on chain
type PendingTransfer struct {
	Hash   string
	Amount *big.Int
	To     string
	Status TransferStatus
	Time   time.Time
}

// ErrFaucetDisabled is returned when no faucet endpoint is configured
var ErrFaucetDisabled = errors.New("no faucet configured (set TESTNET_FAUCET_URL)")

// FaucetClient requests test funds from a drop endpoint
type FaucetClient struct {
	baseURL string
	client  *http.Client
}

// NewFaucetClient creates a new faucet client
func NewFaucetClient(baseURL string) *FaucetClient {
	return &FaucetClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type dropResponse struct {
	SubmissionID string `json:"submissionId"`
}

// RequestFunds asks the faucet to send a drop to address via PUT <base>/<address>
func (c *FaucetClient) RequestFunds(ctx context.Context, address string) (PendingTransfer, error) {
	if c == nil || c.baseURL == "" {
		return PendingTransfer{}, ErrFaucetDisabled
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return PendingTransfer{}, fmt.Errorf("failed to build faucet request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return PendingTransfer{}, fmt.Errorf("failed to request funds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return PendingTransfer{}, fmt.Errorf("failed to request funds: status %d: %s", resp.StatusCode, msg)
	}

	var drop dropResponse
	// Some faucets answer with an empty body; that is still a successful drop.
	if err := json.NewDecoder(resp.Body).Decode(&drop); err != nil && !errors.Is(err, io.EOF) {
		return PendingTransfer{}, fmt.Errorf("failed to decode faucet response: %w", err)
	}

	return PendingTransfer{
		Hash:   drop.SubmissionID,
		Amount: new(big.Int).Set(DropAmount),
		To:     address,
		Status: TransferPending,
		Time:   time.Now(),
	}, nil
}
