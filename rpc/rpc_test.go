package rpc

import (
	"context"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// fakeEth serves the handful of eth_ methods the app uses
type fakeEth struct {
	genesis common.Hash
	head    uint64
	balance *big.Int
	nonce   uint64
	code    []byte
	fail    error

	lastBlockArg string
}

func (f *fakeEth) GetBlockByNumber(number string, full bool) (map[string]interface{}, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if number != "0x0" {
		return nil, nil
	}
	return map[string]interface{}{"hash": f.genesis, "number": number}, nil
}

func (f *fakeEth) BlockNumber() (hexutil.Uint64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return hexutil.Uint64(f.head), nil
}

func (f *fakeEth) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	f.lastBlockArg = block
	return (*hexutil.Big)(f.balance), nil
}

func (f *fakeEth) GetTransactionCount(addr common.Address, block string) (hexutil.Uint64, error) {
	return hexutil.Uint64(f.nonce), nil
}

func (f *fakeEth) GetCode(addr common.Address, block string) (hexutil.Bytes, error) {
	return f.code, nil
}

func newFakeClient(t *testing.T, eth *fakeEth) *Client {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", eth); err != nil {
		t.Fatalf("Failed to register fake eth service: %v", err)
	}
	c := gethrpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return NewClient(c, "inproc")
}

func TestGenesisHash(t *testing.T) {
	genesis := common.HexToHash("0x25a5cc106eea7138acab33231d7160d69cb777ee0c2c553fcddf5138993e6dd9")

	t.Run("reported by node", func(t *testing.T) {
		client := newFakeClient(t, &fakeEth{genesis: genesis})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hash, err := client.GenesisHash(ctx)
		if err != nil {
			t.Fatalf("GenesisHash failed: %v", err)
		}
		if hash != genesis.Hex() {
			t.Errorf("Expected %s, got %s", genesis.Hex(), hash)
		}
	})

	t.Run("node error", func(t *testing.T) {
		client := newFakeClient(t, &fakeEth{fail: errors.New("boom")})

		_, err := client.GenesisHash(context.Background())
		if err == nil || !strings.Contains(err.Error(), "boom") {
			t.Errorf("Expected wrapped node error, got %v", err)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		var client *Client
		if _, err := client.GenesisHash(context.Background()); !errors.Is(err, ErrNoClient) {
			t.Errorf("Expected ErrNoClient, got %v", err)
		}
	})
}

func TestLoadAccountInfo(t *testing.T) {
	const addr = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

	t.Run("snapshot at head", func(t *testing.T) {
		eth := &fakeEth{
			head:    1234,
			balance: big.NewInt(42),
			nonce:   7,
			code:    []byte{0x60, 0x80},
		}
		client := newFakeClient(t, eth)

		info, err := LoadAccountInfo(client, addr)
		if err != nil {
			t.Fatalf("LoadAccountInfo failed: %v", err)
		}

		if info.Address != addr {
			t.Errorf("Expected address %s, got %s", addr, info.Address)
		}
		if info.Balance.Cmp(big.NewInt(42)) != 0 {
			t.Errorf("Expected balance 42, got %s", info.Balance)
		}
		if info.Nonce != 7 {
			t.Errorf("Expected nonce 7, got %d", info.Nonce)
		}
		if info.Index != 1234 {
			t.Errorf("Expected index 1234, got %d", info.Index)
		}
		if !info.IsContract {
			t.Error("Expected account with code to be a contract")
		}
		if eth.lastBlockArg != "0x4d2" {
			t.Errorf("Expected balance read at block 0x4d2, got %s", eth.lastBlockArg)
		}
		if info.LoadedAt.IsZero() {
			t.Error("LoadedAt not set")
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		client := newFakeClient(t, &fakeEth{})

		for _, bad := range []string{"not-an-address", strings.TrimPrefix(addr, "0x"), "0x71C7"} {
			_, err := LoadAccountInfo(client, bad)
			if err == nil || !strings.Contains(err.Error(), "invalid account address") {
				t.Fatalf("Expected invalid address error for %q, got %v", bad, err)
			}
		}
	})

	t.Run("node error", func(t *testing.T) {
		client := newFakeClient(t, &fakeEth{fail: errors.New("header not found")})

		_, err := LoadAccountInfo(client, addr)
		if err == nil || !strings.Contains(err.Error(), "header not found") {
			t.Errorf("Expected node error, got %v", err)
		}
	})

	t.Run("no client", func(t *testing.T) {
		if _, err := LoadAccountInfo(nil, addr); !errors.Is(err, ErrNoClient) {
			t.Errorf("Expected ErrNoClient, got %v", err)
		}
	})
}

func TestConnect(t *testing.T) {
	// Get RPC URL from environment
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)

		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}

		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}

		if result.Client.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Client.URL)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hash, err := result.Client.GenesisHash(ctx)
		if err != nil {
			t.Errorf("Failed to get genesis hash: %v", err)
		} else {
			t.Logf("Connected to chain with genesis %s", hash)
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		result := Connect("not-a-valid-url")

		// For invalid URLs, we expect either an error or a nil client
		if result.Error == nil && result.Client != nil {
			t.Log("Warning: Invalid URL accepted by RPC client (may depend on URL format)")
		}
	})
}

func TestGenerateQRCode(t *testing.T) {
	if GenerateQRCode("") != "" {
		t.Error("Expected empty QR code for empty content")
	}

	qr := GenerateQRCode("https://sepolia.etherscan.io/address/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	if len(strings.Split(strings.TrimSpace(qr), "\n")) < 10 {
		t.Errorf("Expected a multi-line QR code, got %q", qr)
	}
}
