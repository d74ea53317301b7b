package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agency-checkout/internal/config"
)

type StorageClient interface {
	// Upload streams one object into the bucket and returns its public URL.
	Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error)
}

type storageClientImpl struct {
	httpClient *http.Client
	projectURL string
	serviceKey string
	bucket     string
}

func NewStorageClient(cfg *config.Supabase) StorageClient {
	return &storageClientImpl{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		projectURL: strings.TrimRight(cfg.ProjectURL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.UploadBucket,
	}
}

func (c *storageClientImpl) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.projectURL, c.bucket, objectKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage error %d: %s", resp.StatusCode, string(b))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.projectURL, c.bucket, objectKey), nil
}
