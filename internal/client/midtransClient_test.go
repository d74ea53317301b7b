package client

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agency-checkout/internal/config"
	"agency-checkout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(snapURL, apiURL string) MidtransClient {
	return NewMidtransClient(&config.Midtrans{
		BaseApiURL: apiURL,
		SnapApiURL: snapURL,
		ServerKey:  "SB-server-key",
	})
}

func TestCreateSnapToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("SB-server-key:"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		var req model.SnapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORD-1", req.TransactionDetails.OrderID)
		assert.Equal(t, int64(500_000), req.TransactionDetails.GrossAmount)

		json.NewEncoder(w).Encode(model.SnapResponse{Token: "tok-123", RedirectURL: "https://pay"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	resp, err := c.CreateSnapToken(context.Background(), &model.SnapRequest{
		TransactionDetails: model.SnapTransactionDetails{OrderID: "ORD-1", GrossAmount: 500_000},
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
}

func TestCreateSnapTokenRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(model.SnapResponse{Token: "tok-after-retry"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	resp, err := c.CreateSnapToken(context.Background(), &model.SnapRequest{})
	require.NoError(t, err)
	assert.Equal(t, "tok-after-retry", resp.Token)
	assert.Equal(t, 3, calls)
}

func TestCreateSnapTokenExhaustsRetryBudget(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	_, err := c.CreateSnapToken(context.Background(), &model.SnapRequest{})
	require.Error(t, err)
	assert.Equal(t, snapMaxRetries, calls)
}

func TestCreateSnapTokenClientErrorIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	_, err := c.CreateSnapToken(context.Background(), &model.SnapRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ORD-9/status", r.URL.Path)
		json.NewEncoder(w).Encode(model.TransactionStatus{
			OrderID:           "ORD-9",
			TransactionStatus: "settlement",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)

	st, err := c.TransactionStatus(context.Background(), "ORD-9")
	require.NoError(t, err)
	assert.Equal(t, "settlement", st.TransactionStatus)
}

func TestVerifySignature(t *testing.T) {
	c := newTestClient("", "")

	n := &model.TransactionStatus{
		OrderID:     "ORD-1",
		StatusCode:  "200",
		GrossAmount: "500000.00",
	}
	sum := sha512.Sum512([]byte("ORD-1" + "200" + "500000.00" + "SB-server-key"))
	n.SignatureKey = hex.EncodeToString(sum[:])

	assert.True(t, c.VerifySignature(n))

	n.SignatureKey = "tampered"
	assert.False(t, c.VerifySignature(n))
}
