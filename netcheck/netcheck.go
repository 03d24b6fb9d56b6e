// Package netcheck detects a wallet or node that is on a different chain than
// the selected network.
package netcheck

import "strings"

// Report compares the genesis hash reported by the wallet and by the RPC node
// with the one configured for the selected network. An empty hash means the
// source has not answered (yet) and is never a mismatch.
type Report struct {
	Expected string
	RPC      string
	Wallet   string

	RPCMismatch    bool
	WalletMismatch bool
}

// Check builds a Report
func Check(expected, rpcHash, walletHash string) Report {
	return Report{
		Expected:       expected,
		RPC:            rpcHash,
		Wallet:         walletHash,
		RPCMismatch:    differs(rpcHash, expected),
		WalletMismatch: differs(walletHash, expected),
	}
}

// Inconsistent reports whether any known hash disagrees with the expected one
func (r Report) Inconsistent() bool {
	return r.RPCMismatch || r.WalletMismatch
}

func differs(got, expected string) bool {
	if got == "" {
		return false
	}
	return !strings.EqualFold(normalize(got), normalize(expected))
}

func normalize(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "0x")
}
