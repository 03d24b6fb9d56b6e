package main

import (
	"charm-sign-tui/rpc"
	"charm-sign-tui/wallet"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture.
// Messages tied to a network or connection carry the epoch they were issued
// in; Update drops them once the epoch has moved on. Node messages use the
// network epoch, which a wallet disconnect does not touch.

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
}

// clearClipboardMsg asks Update to clear stale copy feedback
type clearClipboardMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
	epoch  int
}

// rpcGenesisMsg carries the genesis hash reported by the node
type rpcGenesisMsg struct {
	hash  string
	err   error
	epoch int
}

// connectorReadyMsg contains a freshly created connector
type connectorReadyMsg struct {
	typ       wallet.Type
	connector wallet.Connector
	err       error
	epoch     int
}

// walletConnectedMsg contains the result of connector.Connect
type walletConnectedMsg struct {
	connection wallet.Connection
	err        error
	epoch      int
}

// walletGenesisMsg carries the genesis hash reported by the wallet
type walletGenesisMsg struct {
	hash  string
	err   error
	epoch int
}

// accountInfoMsg contains account info after loading
type accountInfoMsg struct {
	info rpc.AccountInfo
	err  error
	seq  int
}

// signedMsg contains the outcome of a sign request
type signedMsg struct {
	message   wallet.Message
	signature wallet.Signature
	err       error
	epoch     int
}

// faucetMsg contains the outcome of a faucet drop request
type faucetMsg struct {
	transfer rpc.PendingTransfer
	err      error
	epoch    int
}
