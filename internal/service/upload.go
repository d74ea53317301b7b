package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"agency-checkout/internal/client"
	"agency-checkout/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type UploadService interface {
	// UploadOrderFiles pushes attachments to the bucket one file at a
	// time. The first failure aborts the loop and reports which file
	// broke; files uploaded before it stay in the bucket.
	UploadOrderFiles(ctx context.Context, orderID string, files []UploadFile) ([]string, error)
}

type uploadServiceImpl struct {
	storage   client.StorageClient
	orderRepo repository.OrderRepository
}

func NewUploadService(storage client.StorageClient, orderRepo repository.OrderRepository) UploadService {
	return &uploadServiceImpl{
		storage:   storage,
		orderRepo: orderRepo,
	}
}

func (s *uploadServiceImpl) UploadOrderFiles(ctx context.Context, orderID string, files []UploadFile) ([]string, error) {
	if _, err := s.orderRepo.FindByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	urls := make([]string, 0, len(files))
	for i, f := range files {
		key := objectKey(orderID, f.Name)
		url, err := s.storage.Upload(ctx, key, f.ContentType, f.Body)
		if err != nil {
			return nil, fmt.Errorf("upload file %d (%s): %w", i+1, f.Name, err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}

func objectKey(orderID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("orders/%s/%s%s", orderID, uuid.NewString(), ext)
}
