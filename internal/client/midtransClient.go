package client

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agency-checkout/internal/config"
	"agency-checkout/internal/model"

	"github.com/cenkalti/backoff/v4"
)

const snapMaxRetries = 3

type MidtransClient interface {
	// CreateSnapToken asks the Snap API for a hosted-payment-page token.
	// Transient failures are retried with exponential backoff, at most
	// three attempts in total.
	CreateSnapToken(ctx context.Context, req *model.SnapRequest) (*model.SnapResponse, error)

	// TransactionStatus queries the Core API for the current state of a
	// transaction by our order id.
	TransactionStatus(ctx context.Context, orderID string) (*model.TransactionStatus, error)

	// VerifySignature checks the signature_key of an HTTP notification.
	VerifySignature(n *model.TransactionStatus) bool
}

type midtransClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	snapApiURL string
	serverKey  string
}

func NewMidtransClient(cfg *config.Midtrans) MidtransClient {
	return &midtransClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		snapApiURL: cfg.SnapApiURL,
		serverKey:  cfg.ServerKey,
	}
}

func (c *midtransClientImpl) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.serverKey+":"))
}

func (c *midtransClientImpl) CreateSnapToken(ctx context.Context, snapReq *model.SnapRequest) (*model.SnapResponse, error) {
	body, err := json.Marshal(snapReq)
	if err != nil {
		return nil, fmt.Errorf("marshal snap payload: %w", err)
	}

	var result model.SnapResponse

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.snapApiURL+"/snap/v1/transactions",
			bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("http new request: %w", err))
		}
		req.Header.Set("Authorization", c.authHeader())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("snap request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("snap error %d: %s", resp.StatusCode, string(b))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			// 4xx means the payload is wrong; retrying will not help
			return backoff.Permanent(fmt.Errorf("snap error %d: %s", resp.StatusCode, string(b)))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode snap response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), snapMaxRetries-1), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("create snap token: %w", err)
	}

	return &result, nil
}

func (c *midtransClientImpl) TransactionStatus(ctx context.Context, orderID string) (*model.TransactionStatus, error) {
	url := fmt.Sprintf("%s/v2/%s/status", c.baseApiURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("midtrans status error %d: %s", resp.StatusCode, string(b))
	}

	var status model.TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return &status, nil
}

// VerifySignature recomputes sha512(order_id + status_code + gross_amount +
// server_key) and compares it against the notification's signature_key.
func (c *midtransClientImpl) VerifySignature(n *model.TransactionStatus) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}
