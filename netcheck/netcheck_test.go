package netcheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	const (
		sepolia = "0x25a5cc106eea7138acab33231d7160d69cb777ee0c2c553fcddf5138993e6dd9"
		mainnet = "0xd4e56740f876aef8c010b86a40d5f56745a118d0906a34e69aec8c0db1cb8fa3"
	)

	tests := []struct {
		name           string
		rpc, wallet    string
		rpcMismatch    bool
		walletMismatch bool
	}{
		{name: "nothing known yet"},
		{name: "all agree", rpc: sepolia, wallet: sepolia},
		{name: "case and prefix ignored", rpc: "25A5CC106EEA7138ACAB33231D7160D69CB777EE0C2C553FCDDF5138993E6DD9", wallet: sepolia},
		{name: "rpc on other chain", rpc: mainnet, wallet: sepolia, rpcMismatch: true},
		{name: "wallet on other chain", rpc: sepolia, wallet: mainnet, walletMismatch: true},
		{name: "wallet unknown, rpc wrong", rpc: mainnet, rpcMismatch: true},
		{name: "both wrong", rpc: mainnet, wallet: mainnet, rpcMismatch: true, walletMismatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(sepolia, tt.rpc, tt.wallet)
			require.Equal(t, tt.rpcMismatch, r.RPCMismatch)
			require.Equal(t, tt.walletMismatch, r.WalletMismatch)
			require.Equal(t, tt.rpcMismatch || tt.walletMismatch, r.Inconsistent())
			require.Equal(t, sepolia, r.Expected)
		})
	}
}
