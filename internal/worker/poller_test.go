package worker

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"agency-checkout/internal/client"
	"agency-checkout/internal/config"
	"agency-checkout/internal/model"
	"agency-checkout/internal/repository"
	"agency-checkout/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubGateway struct {
	statusResp *model.TransactionStatus
	statusErr  error
}

func (g *stubGateway) CreateSnapToken(ctx context.Context, req *model.SnapRequest) (*model.SnapResponse, error) {
	panic("not used by poller")
}

func (g *stubGateway) TransactionStatus(ctx context.Context, orderID string) (*model.TransactionStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.statusResp, nil
}

func (g *stubGateway) VerifySignature(n *model.TransactionStatus) bool { return true }

func setupPoller(t *testing.T, gateway client.MidtransClient) (*StatusPoller, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(db))

	logg := logrus.New()
	logg.SetOutput(io.Discard)

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := service.NewPaymentService(
		db, gateway,
		orderRepo, paymentRepo, repository.NewWebhookLogRepository(db),
		logg,
	)

	poller := NewStatusPoller(gateway, paymentRepo, paymentService, &config.Checkout{
		PollInterval: 5 * time.Second,
		PollGrace:    time.Minute,
		PollAttempts: 3,
	}, logg)

	return poller, db
}

func seedStuckTransaction(t *testing.T, db *gorm.DB, orderID string, age time.Duration) {
	t.Helper()
	require.NoError(t, db.Create(&model.Order{
		OrderID:     orderID,
		CustomerID:  1,
		ServiceID:   1,
		ServiceType: "project",
		Status:      "pending_payment",
		GrandTotal:  100_000,
		Remaining:   100_000,
	}).Error)
	require.NoError(t, db.Create(&model.PaymentTransaction{
		OrderID:     orderID,
		Purpose:     "full",
		Status:      "pending",
		GrossAmount: 100_000,
		CreatedAt:   time.Now().Add(-age),
	}).Error)
}

func TestPollerResolvesSettledTransaction(t *testing.T) {
	gateway := &stubGateway{statusResp: &model.TransactionStatus{
		TransactionID:     "mid-1",
		OrderID:           "ORD-P1",
		TransactionStatus: "settlement",
	}}
	poller, db := setupPoller(t, gateway)
	seedStuckTransaction(t, db, "ORD-P1", 5*time.Minute)

	require.NoError(t, poller.process(context.Background()))

	var order model.Order
	require.NoError(t, db.First(&order, "order_id = ?", "ORD-P1").Error)
	assert.Equal(t, "paid", order.Status)

	var txn model.PaymentTransaction
	require.NoError(t, db.First(&txn, "order_id = ?", "ORD-P1").Error)
	assert.Equal(t, "settlement", txn.Status)
}

func TestPollerSkipsFreshTransactions(t *testing.T) {
	gateway := &stubGateway{statusResp: &model.TransactionStatus{TransactionStatus: "settlement"}}
	poller, db := setupPoller(t, gateway)
	seedStuckTransaction(t, db, "ORD-P2", 10*time.Second) // inside the grace window

	require.NoError(t, poller.process(context.Background()))

	var txn model.PaymentTransaction
	require.NoError(t, db.First(&txn, "order_id = ?", "ORD-P2").Error)
	assert.Equal(t, "pending", txn.Status)
}

func TestPollerExpiresAfterRetryBudget(t *testing.T) {
	gateway := &stubGateway{statusResp: &model.TransactionStatus{
		OrderID:           "ORD-P3",
		TransactionStatus: "pending",
	}}
	poller, db := setupPoller(t, gateway)
	seedStuckTransaction(t, db, "ORD-P3", 5*time.Minute)

	// first two sweeps only bump the poll counter
	require.NoError(t, poller.process(context.Background()))
	require.NoError(t, poller.process(context.Background()))

	var txn model.PaymentTransaction
	require.NoError(t, db.First(&txn, "order_id = ?", "ORD-P3").Error)
	assert.Equal(t, "pending", txn.Status)
	assert.Equal(t, 2, txn.PollCount)

	// third sweep exhausts the budget
	require.NoError(t, poller.process(context.Background()))

	require.NoError(t, db.First(&txn, "order_id = ?", "ORD-P3").Error)
	assert.Equal(t, "expired", txn.Status)

	var order model.Order
	require.NoError(t, db.First(&order, "order_id = ?", "ORD-P3").Error)
	assert.Equal(t, "expired", order.Status)
}

func TestPollerKeepsGoingWhenGatewayFails(t *testing.T) {
	gateway := &stubGateway{statusErr: fmt.Errorf("gateway down")}
	poller, db := setupPoller(t, gateway)
	seedStuckTransaction(t, db, "ORD-P4", 5*time.Minute)

	// a failing status call is logged, not fatal
	require.NoError(t, poller.process(context.Background()))

	var txn model.PaymentTransaction
	require.NoError(t, db.First(&txn, "order_id = ?", "ORD-P4").Error)
	assert.Equal(t, "pending", txn.Status)
}
