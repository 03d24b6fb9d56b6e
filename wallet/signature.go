package wallet

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature maps credential index to key index to a hex encoded signature.
// Single-key wallets fill only [0][0].
type Signature map[uint8]map[uint8]string

// NewSignature wraps a single 65-byte signature
func NewSignature(sig []byte) Signature {
	return Signature{0: {0: hexutil.Encode(sig)}}
}

// Raw returns the first key's signature
func (s Signature) Raw() string {
	return s[0][0]
}

// Base64 returns the base64 of the JSON encoding of the whole structure
func (s Signature) Base64() string {
	if len(s) == 0 {
		return ""
	}
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// Recover returns the address that produced the raw signature over msg
func (s Signature) Recover(msg Message) (common.Address, error) {
	sig, err := hexutil.Decode(s.Raw())
	if err != nil {
		return common.Address{}, fmt.Errorf("bad signature encoding: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("bad signature length %d", len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(msg.Payload), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
