package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

type staticGenesis string

func (s staticGenesis) GenesisHash(context.Context) (string, error) { return string(s), nil }

func newKeystore(t *testing.T, passphrase string) (string, accounts.Account) {
	t.Helper()
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	acct, err := ks.NewAccount(passphrase)
	require.NoError(t, err)
	return dir, acct
}

func TestKeystoreConnector(t *testing.T) {
	dir, acct := newKeystore(t, "correct horse")
	ctx := context.Background()

	t.Run("needs passphrase", func(t *testing.T) {
		c, err := NewKeystoreConnector(dir, "", "", staticGenesis("0x01"))
		require.NoError(t, err)
		require.True(t, c.NeedsPassphrase())

		_, err = c.Connect(ctx)
		require.ErrorIs(t, err, ErrPassphraseRequired)
	})

	t.Run("wrong passphrase is forgotten", func(t *testing.T) {
		c, err := NewKeystoreConnector(dir, "", "nope", nil)
		require.NoError(t, err)

		_, err = c.Connect(ctx)
		require.Error(t, err)
		require.True(t, c.NeedsPassphrase())
	})

	t.Run("connect and sign", func(t *testing.T) {
		c, err := NewKeystoreConnector(dir, acct.Address.Hex(), "", staticGenesis("0xabc"))
		require.NoError(t, err)
		c.SetPassphrase("correct horse")

		conn, err := c.Connect(ctx)
		require.NoError(t, err)
		defer conn.Close()

		require.Equal(t, []string{acct.Address.Hex()}, conn.Accounts())

		hash, err := conn.GenesisHash(ctx)
		require.NoError(t, err)
		require.Equal(t, "0xabc", hash)

		msg := StringMessage("hello aesir")
		sig, err := conn.SignMessage(ctx, acct.Address.Hex(), msg)
		require.NoError(t, err)

		raw, err := hexutil.Decode(sig.Raw())
		require.NoError(t, err)
		require.Len(t, raw, crypto.SignatureLength)
		require.Contains(t, []byte{27, 28}, raw[crypto.RecoveryIDOffset])

		signer, err := sig.Recover(msg)
		require.NoError(t, err)
		require.Equal(t, acct.Address, signer)
	})

	t.Run("sign for other account", func(t *testing.T) {
		c, err := NewKeystoreConnector(dir, "", "correct horse", nil)
		require.NoError(t, err)
		conn, err := c.Connect(ctx)
		require.NoError(t, err)

		_, err = conn.SignMessage(ctx, "0x0000000000000000000000000000000000000001", StringMessage("x"))
		require.Error(t, err)

		_, err = conn.GenesisHash(ctx)
		require.ErrorIs(t, err, ErrNoNode)
	})

	t.Run("empty keystore", func(t *testing.T) {
		c, err := NewKeystoreConnector(t.TempDir(), "", "pw", nil)
		require.NoError(t, err)

		_, err = c.Connect(ctx)
		require.ErrorIs(t, err, ErrNoAccount)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewKeystoreConnector(filepath.Join(t.TempDir(), "missing"), "", "", nil)
		require.Error(t, err)
	})
}

// fakeClef answers the subset of the Clef external API used by ExternalSigner
type fakeClef struct {
	key    *ecdsa.PrivateKey
	refuse bool
	// short answers with a truncated signature
	short bool
}

func (f *fakeClef) Version() (string, error) { return "6.0.0", nil }

func (f *fakeClef) List() ([]common.Address, error) {
	return []common.Address{crypto.PubkeyToAddress(f.key.PublicKey)}, nil
}

func (f *fakeClef) SignData(contentType string, addr common.MixedcaseAddress, data hexutil.Bytes) (hexutil.Bytes, error) {
	if f.refuse {
		return nil, errors.New("Request denied")
	}
	if f.short {
		return hexutil.Bytes{0x01, 0x02}, nil
	}
	if contentType != accounts.MimetypeTextPlain {
		return nil, errors.New("unexpected content type " + contentType)
	}
	sig, err := crypto.Sign(accounts.TextHash(data), f.key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func newFakeClef(t *testing.T, clef *fakeClef) string {
	t.Helper()
	srv := gethrpc.NewServer()
	require.NoError(t, srv.RegisterName("account", clef))
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		hs.Close()
		srv.Stop()
	})
	return hs.URL
}

func TestExternalConnector(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("connect and sign", func(t *testing.T) {
		url := newFakeClef(t, &fakeClef{key: key})

		c, err := New(TypeExternal, Options{ExternalURL: url})
		require.NoError(t, err)
		require.Equal(t, TypeExternal, c.Type())

		conn, err := c.Connect(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{addr.Hex()}, conn.Accounts())

		msg := StringMessage("sign me")
		sig, err := conn.SignMessage(ctx, addr.Hex(), msg)
		require.NoError(t, err)

		signer, err := sig.Recover(msg)
		require.NoError(t, err)
		require.Equal(t, addr, signer)
	})

	t.Run("refused", func(t *testing.T) {
		url := newFakeClef(t, &fakeClef{key: key, refuse: true})

		c, err := NewExternalConnector(url, nil)
		require.NoError(t, err)
		conn, err := c.Connect(ctx)
		require.NoError(t, err)

		_, err = conn.SignMessage(ctx, addr.Hex(), StringMessage("sign me"))
		require.ErrorContains(t, err, "Request denied")
	})

	t.Run("truncated signature", func(t *testing.T) {
		url := newFakeClef(t, &fakeClef{key: key, short: true})

		c, err := NewExternalConnector(url, nil)
		require.NoError(t, err)
		conn, err := c.Connect(ctx)
		require.NoError(t, err)

		sig, err := conn.SignMessage(ctx, addr.Hex(), StringMessage("sign me"))
		require.ErrorContains(t, err, "malformed signature")
		require.Nil(t, sig)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := NewExternalConnector("http://127.0.0.1:1", nil)
		require.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New(Type("ledger"), Options{})
		require.ErrorIs(t, err, ErrUnknownConnector)
	})
}

func TestBuildMessage(t *testing.T) {
	schema := base64.StdEncoding.EncodeToString([]byte(`[{"name":"amount","type":"uint256"}]`))

	t.Run("empty", func(t *testing.T) {
		_, err := BuildMessage("", "")
		require.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("text", func(t *testing.T) {
		msg, err := BuildMessage("hello", "  ")
		require.NoError(t, err)
		require.Equal(t, KindText, msg.Kind)
		require.Equal(t, []byte("hello"), msg.Payload)
		require.Equal(t, "hello", msg.Describe())
	})

	t.Run("binary", func(t *testing.T) {
		input := "0x000000000000000000000000000000000000000000000000000000000000002a"
		msg, err := BuildMessage(input, schema)
		require.NoError(t, err)
		require.Equal(t, KindBinary, msg.Kind)
		require.Len(t, msg.Payload, 32)
		require.Equal(t, "amount=42", msg.Describe())
	})

	t.Run("binary does not match schema", func(t *testing.T) {
		_, err := BuildMessage("0x2a", schema)
		require.ErrorContains(t, err, "does not match schema")
	})

	t.Run("binary not hex", func(t *testing.T) {
		_, err := BuildMessage("hello", schema)
		require.ErrorContains(t, err, "not hex")
	})

	t.Run("bad schema", func(t *testing.T) {
		_, err := BuildMessage("0x00", "!!!")
		require.ErrorContains(t, err, "not base64")

		_, err = ParseSchema(base64.StdEncoding.EncodeToString([]byte(`[]`)))
		require.ErrorContains(t, err, "no arguments")

		_, err = ParseSchema(base64.StdEncoding.EncodeToString([]byte(`{"type":1}`)))
		require.ErrorContains(t, err, "not an ABI argument list")
	})
}

func TestSignature(t *testing.T) {
	var empty Signature
	require.Equal(t, "", empty.Raw())
	require.Equal(t, "", empty.Base64())

	sig := NewSignature([]byte{0xde, 0xad})
	require.Equal(t, "0xdead", sig.Raw())

	decoded, err := base64.StdEncoding.DecodeString(sig.Base64())
	require.NoError(t, err)

	var nested map[string]map[string]string
	require.NoError(t, json.Unmarshal(decoded, &nested))
	require.Equal(t, "0xdead", nested["0"]["0"])

	_, err = sig.Recover(StringMessage("x"))
	require.Error(t, err)
}
