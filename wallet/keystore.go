package wallet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeystoreConnector connects to an account in a local go-ethereum keystore
type KeystoreConnector struct {
	ks         *keystore.KeyStore
	dir        string
	account    string
	passphrase string
	node       GenesisSource
}

// NewKeystoreConnector opens the keystore directory. account may be empty to
// use the first account found.
func NewKeystoreConnector(dir, account, passphrase string, node GenesisSource) (*KeystoreConnector, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("failed to open keystore: %s is not a directory", dir)
	}
	if account != "" && !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid keystore account %q", account)
	}

	return &KeystoreConnector{
		ks:         keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP),
		dir:        dir,
		account:    account,
		passphrase: passphrase,
		node:       node,
	}, nil
}

func (c *KeystoreConnector) Type() Type { return TypeKeystore }

func (c *KeystoreConnector) NeedsPassphrase() bool { return c.passphrase == "" }

func (c *KeystoreConnector) SetPassphrase(passphrase string) { c.passphrase = passphrase }

// Connect unlocks the chosen account for the lifetime of the connection
func (c *KeystoreConnector) Connect(ctx context.Context) (Connection, error) {
	if c.passphrase == "" {
		return nil, ErrPassphraseRequired
	}

	acct, err := c.pick()
	if err != nil {
		return nil, err
	}

	if err := c.ks.Unlock(acct, c.passphrase); err != nil {
		// Forget a wrong passphrase so the next attempt prompts again.
		c.passphrase = ""
		return nil, fmt.Errorf("failed to unlock %s: %w", acct.Address.Hex(), err)
	}

	return &keystoreConnection{ks: c.ks, account: acct, node: c.node}, nil
}

func (c *KeystoreConnector) pick() (accounts.Account, error) {
	all := c.ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, fmt.Errorf("%w in %s", ErrNoAccount, c.dir)
	}
	if c.account == "" {
		return all[0], nil
	}
	acct, err := c.ks.Find(accounts.Account{Address: common.HexToAddress(c.account)})
	if err != nil {
		return accounts.Account{}, fmt.Errorf("account %s: %w", c.account, err)
	}
	return acct, nil
}

type keystoreConnection struct {
	ks      *keystore.KeyStore
	account accounts.Account
	node    GenesisSource
}

func (k *keystoreConnection) Accounts() []string {
	return []string{k.account.Address.Hex()}
}

func (k *keystoreConnection) GenesisHash(ctx context.Context) (string, error) {
	if k.node == nil {
		return "", ErrNoNode
	}
	return k.node.GenesisHash(ctx)
}

// SignMessage produces an EIP-191 personal signature over the message payload
func (k *keystoreConnection) SignMessage(ctx context.Context, account string, msg Message) (Signature, error) {
	if !strings.EqualFold(account, k.account.Address.Hex()) {
		return nil, fmt.Errorf("account %s is not connected", account)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sig, err := k.ks.SignHash(k.account, accounts.TextHash(msg.Payload))
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return NewSignature(sig), nil
}

func (k *keystoreConnection) Close() error {
	return k.ks.Lock(k.account.Address)
}
