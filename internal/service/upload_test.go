package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"agency-checkout/internal/model"
	"agency-checkout/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	keys   []string
	failAt int // 1-based index of the upload that fails; 0 = never
}

func (f *fakeStorage) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	f.keys = append(f.keys, objectKey)
	if f.failAt > 0 && len(f.keys) == f.failAt {
		return "", errors.New("bucket unavailable")
	}
	return "https://cdn.example/" + objectKey, nil
}

func TestUploadOrderFiles(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.Order{OrderID: "ORD-U1", Status: "pending_payment"}).Error)

	storage := &fakeStorage{}
	svc := NewUploadService(storage, repository.NewOrderRepository(db))

	urls, err := svc.UploadOrderFiles(context.Background(), "ORD-U1", []UploadFile{
		{Name: "brief.PDF", ContentType: "application/pdf", Body: strings.NewReader("a")},
		{Name: "logo.png", ContentType: "image/png", Body: strings.NewReader("b")},
	})
	require.NoError(t, err)
	require.Len(t, urls, 2)

	for _, key := range storage.keys {
		assert.True(t, strings.HasPrefix(key, "orders/ORD-U1/"), key)
	}
	assert.True(t, strings.HasSuffix(storage.keys[0], ".pdf"), "extension lowercased")
	assert.True(t, strings.HasSuffix(storage.keys[1], ".png"))
}

func TestUploadOrderFilesStopsOnFirstFailure(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.Order{OrderID: "ORD-U2", Status: "pending_payment"}).Error)

	storage := &fakeStorage{failAt: 2}
	svc := NewUploadService(storage, repository.NewOrderRepository(db))

	_, err := svc.UploadOrderFiles(context.Background(), "ORD-U2", []UploadFile{
		{Name: "a.pdf", Body: strings.NewReader("a")},
		{Name: "b.pdf", Body: strings.NewReader("b")},
		{Name: "c.pdf", Body: strings.NewReader("c")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file 2")
	assert.Len(t, storage.keys, 2, "upload loop must stop at the failing file")
}

func TestUploadOrderFilesUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUploadService(&fakeStorage{}, repository.NewOrderRepository(db))

	_, err := svc.UploadOrderFiles(context.Background(), "ORD-MISSING", []UploadFile{
		{Name: "a.pdf", Body: strings.NewReader("a")},
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
