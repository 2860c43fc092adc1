package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateTransfer_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfer", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "balance", body["source"])
		assert.Equal(t, float64(50000), body["amount"])
		assert.Equal(t, "RCP_abc", body["recipient"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Transfer has been queued",
			"data": {"reference": "ref-1", "transfer_code": "TRF_xyz", "status": "pending"}
		}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	transfer, err := client.InitiateTransfer(context.Background(), 50000, "RCP_abc", "wallet withdrawal", "ref-1")

	require.NoError(t, err)
	assert.Equal(t, "ref-1", transfer.Reference)
	assert.Equal(t, "TRF_xyz", transfer.TransferCode)
	assert.Equal(t, "pending", transfer.Status)
}

func TestInitiateTransfer_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status": false, "message": "insufficient balance"}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	transfer, err := client.InitiateTransfer(context.Background(), 50000, "RCP_abc", "", "ref-1")

	require.Error(t, err)
	assert.Nil(t, transfer)
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestInitiateTransfer_EnvelopeStatusFalse(t *testing.T) {
	// HTTP 200 with status=false still counts as a gateway error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": false, "message": "transfers disabled"}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	_, err := client.InitiateTransfer(context.Background(), 100, "RCP_abc", "", "ref-2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transfers disabled")
}

func TestResolveAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/resolve", r.URL.Path)
		assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
		assert.Equal(t, "058", r.URL.Query().Get("bank_code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Account resolved",
			"data": {"account_number": "0123456789", "account_name": "ADA OBI"}
		}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	account, err := client.ResolveAccount(context.Background(), "0123456789", "058")

	require.NoError(t, err)
	assert.Equal(t, "ADA OBI", account.AccountName)
}

func TestEnabled(t *testing.T) {
	assert.True(t, NewClient("https://api.example.com", "sk_test_123").Enabled())
	assert.False(t, NewClient("https://api.example.com", "").Enabled())
}
