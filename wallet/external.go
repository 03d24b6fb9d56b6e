package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/crypto"
)

// ExternalConnector talks to a remote signer implementing the Clef external API
type ExternalConnector struct {
	signer *external.ExternalSigner
	url    string
	node   GenesisSource
}

// NewExternalConnector dials the signer and checks it answers account_version
func NewExternalConnector(url string, node GenesisSource) (*ExternalConnector, error) {
	if url == "" {
		return nil, fmt.Errorf("no external signer URL configured")
	}
	signer, err := external.NewExternalSigner(url)
	if err != nil {
		return nil, fmt.Errorf("failed to reach external signer at %s: %w", url, err)
	}
	return &ExternalConnector{signer: signer, url: url, node: node}, nil
}

func (c *ExternalConnector) Type() Type { return TypeExternal }

// Connect asks the signer which accounts it is willing to expose
func (c *ExternalConnector) Connect(ctx context.Context) (Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	accts := c.signer.Accounts()
	if len(accts) == 0 {
		return nil, fmt.Errorf("%w at %s", ErrNoAccount, c.url)
	}
	return &externalConnection{signer: c.signer, accounts: accts, node: c.node}, nil
}

type externalConnection struct {
	signer   *external.ExternalSigner
	accounts []accounts.Account
	node     GenesisSource
}

func (e *externalConnection) Accounts() []string {
	out := make([]string, 0, len(e.accounts))
	for _, a := range e.accounts {
		out = append(out, a.Address.Hex())
	}
	return out
}

func (e *externalConnection) GenesisHash(ctx context.Context) (string, error) {
	if e.node == nil {
		return "", ErrNoNode
	}
	return e.node.GenesisHash(ctx)
}

type signResult struct {
	sig []byte
	err error
}

// SignMessage forwards the payload to the signer, which may wait for the user
// to approve it on their side.
func (e *externalConnection) SignMessage(ctx context.Context, account string, msg Message) (Signature, error) {
	var acct *accounts.Account
	for i := range e.accounts {
		if strings.EqualFold(e.accounts[i].Address.Hex(), account) {
			acct = &e.accounts[i]
			break
		}
	}
	if acct == nil {
		return nil, fmt.Errorf("account %s is not connected", account)
	}

	// SignText has no context; buffered so the goroutine never leaks on cancel.
	done := make(chan signResult, 1)
	go func() {
		// SignText indexes the reply without checking its length.
		defer func() {
			if r := recover(); r != nil {
				done <- signResult{err: fmt.Errorf("external signer: malformed signature: %v", r)}
			}
		}()
		sig, err := e.signer.SignText(*acct, msg.Payload)
		done <- signResult{sig: sig, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("external signer failed: %w", r.err)
		}
		if len(r.sig) != crypto.SignatureLength {
			return nil, fmt.Errorf("external signer returned %d-byte signature", len(r.sig))
		}
		sig := append([]byte(nil), r.sig...)
		sig[crypto.RecoveryIDOffset] += 27
		return NewSignature(sig), nil
	}
}

// Close is a no-op: the signer's client lives as long as the connector.
func (e *externalConnection) Close() error {
	return nil
}
