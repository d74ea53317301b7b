package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"agency-checkout/internal/client"
	"agency-checkout/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// named in-memory database so every pooled connection sees the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, client.AutoMigrate(db))
	return db
}

func testLogger() *logrus.Logger {
	logg := logrus.New()
	logg.SetOutput(io.Discard)
	return logg
}

// stubGateway is an in-memory MidtransClient for service tests.
type stubGateway struct {
	snapResp   *model.SnapResponse
	snapErr    error
	snapCalls  int
	statusResp *model.TransactionStatus
	statusErr  error
	sigValid   bool
}

func (g *stubGateway) CreateSnapToken(ctx context.Context, req *model.SnapRequest) (*model.SnapResponse, error) {
	g.snapCalls++
	if g.snapErr != nil {
		return nil, g.snapErr
	}
	return g.snapResp, nil
}

func (g *stubGateway) TransactionStatus(ctx context.Context, orderID string) (*model.TransactionStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.statusResp, nil
}

func (g *stubGateway) VerifySignature(n *model.TransactionStatus) bool {
	return g.sigValid
}

func seedService(t *testing.T, db *gorm.DB, slug, serviceType string) *model.Service {
	t.Helper()
	svc := &model.Service{
		Slug:        slug,
		Name:        "Test " + slug,
		ServiceType: serviceType,
		BasePrice:   1_000_000,
		Active:      true,
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}
