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

func TestToMinorUnit(t *testing.T) {
	assert.EqualValues(t, 500000, ToMinorUnit(5000))
	assert.EqualValues(t, 1999, ToMinorUnit(19.99))
	assert.EqualValues(t, 1, ToMinorUnit(0.005))
}

func TestInitializeChargeSendsKoboAndReturnsGatewayReference(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout/abc","access_code":"abc","reference":"GW-REF"}}`))
	}))
	defer srv.Close()

	ps := NewPaystack("sk_test", srv.URL)
	charge, err := ps.InitializeCharge(context.Background(), ChargeRequest{
		Email: "ada@example.com", Amount: 120.5, Currency: "NGN", Reference: "BK-LOCAL",
	})
	require.NoError(t, err)

	assert.Equal(t, "GW-REF", charge.Reference)
	assert.Equal(t, "https://checkout/abc", charge.AuthorizationURL)
	assert.EqualValues(t, 12050, got["amount"])
	assert.Equal(t, "BK-LOCAL", got["reference"])
}

func TestUpstreamMessageIsPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	_, err := NewPaystack("bad", srv.URL).InitializeCharge(context.Background(), ChargeRequest{Email: "a@b.co", Amount: 1})
	require.Error(t, err)
	assert.Equal(t, "Invalid key", err.Error())
}

func TestVerifyCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/BK-1", r.URL.Path)
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"BK-1","amount":10000}}`))
	}))
	defer srv.Close()

	status, err := NewPaystack("sk", srv.URL).VerifyCharge(context.Background(), "BK-1")
	require.NoError(t, err)
	assert.True(t, status.Succeeded())
}

func TestTransferFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transferrecipient":
			w.Write([]byte(`{"status":true,"data":{"recipient_code":"RCP_1"}}`))
		case "/transfer":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "RCP_1", body["recipient"])
			assert.EqualValues(t, 500000, body["amount"])
			w.Write([]byte(`{"status":true,"data":{"transfer_code":"TRF_1","reference":"PO-1","status":"pending"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ps := NewPaystack("sk", srv.URL)
	code, err := ps.CreateTransferRecipient(context.Background(), RecipientRequest{Name: "Ada", AccountNumber: "0123456789", BankCode: "058"})
	require.NoError(t, err)
	assert.Equal(t, "RCP_1", code)

	tr, err := ps.InitiateTransfer(context.Background(), TransferRequest{Amount: 5000, Recipient: code, Reference: "PO-1"})
	require.NoError(t, err)
	assert.Equal(t, "TRF_1", tr.TransferCode)
}

func TestInitiateTransferReportsImmediateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Transfer has been queued","data":{"transfer_code":"TRF_2","reference":"PO-2","status":"failed"}}`))
	}))
	defer srv.Close()

	tr, err := NewPaystack("sk", srv.URL).InitiateTransfer(context.Background(), TransferRequest{Amount: 10, Recipient: "RCP_1", Reference: "PO-2"})
	require.NoError(t, err)
	assert.True(t, tr.Failed())
	assert.False(t, (&Transfer{Status: "pending"}).Failed())
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	sig := Sign("sk_live", body)

	assert.True(t, VerifySignature("sk_live", body, sig))
	assert.False(t, VerifySignature("sk_live", body, "deadbeef"))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("sk_live", body, ""))
}
