package rpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestFunds(t *testing.T) {
	const addr = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

	t.Run("pending transfer", func(t *testing.T) {
		var gotMethod, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"submissionId":"0xfeed"}`))
		}))
		defer srv.Close()

		transfer, err := NewFaucetClient(srv.URL+"/v0/drop/").RequestFunds(context.Background(), addr)
		if err != nil {
			t.Fatalf("RequestFunds failed: %v", err)
		}

		if gotMethod != http.MethodPut {
			t.Errorf("Expected PUT, got %s", gotMethod)
		}
		if gotPath != "/v0/drop/"+addr {
			t.Errorf("Unexpected path %s", gotPath)
		}
		if transfer.Hash != "0xfeed" || transfer.To != addr || transfer.Status != TransferPending {
			t.Errorf("Unexpected transfer %+v", transfer)
		}
		if transfer.Amount.Cmp(DropAmount) != 0 {
			t.Errorf("Expected drop amount %s, got %s", DropAmount, transfer.Amount)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		transfer, err := NewFaucetClient(srv.URL).RequestFunds(context.Background(), addr)
		if err != nil {
			t.Fatalf("RequestFunds failed: %v", err)
		}
		if transfer.Hash != "" {
			t.Errorf("Expected no hash, got %s", transfer.Hash)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "already funded today", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewFaucetClient(srv.URL).RequestFunds(context.Background(), addr)
		if err == nil || !strings.Contains(err.Error(), "already funded today") {
			t.Errorf("Expected faucet error text, got %v", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := NewFaucetClient("").RequestFunds(context.Background(), addr)
		if !errors.Is(err, ErrFaucetDisabled) {
			t.Errorf("Expected ErrFaucetDisabled, got %v", err)
		}
	})
}
