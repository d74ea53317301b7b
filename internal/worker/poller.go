package worker

import (
	"context"
	"time"

	"agency-checkout/internal/client"
	"agency-checkout/internal/config"
	"agency-checkout/internal/model"
	"agency-checkout/internal/repository"
	"agency-checkout/internal/service"

	"github.com/sirupsen/logrus"
)

const pollBatchSize = 20

// StatusPoller periodically re-queries the gateway for payment transactions
// that are still pending locally, in case the webhook never arrived.
type StatusPoller struct {
	gateway        client.MidtransClient
	paymentRepo    repository.PaymentRepository
	paymentService service.PaymentService
	interval       time.Duration
	grace          time.Duration
	maxAttempts    int
	logg           *logrus.Logger
}

func NewStatusPoller(
	gateway client.MidtransClient,
	paymentRepo repository.PaymentRepository,
	paymentService service.PaymentService,
	cfg *config.Checkout,
	logg *logrus.Logger,
) *StatusPoller {
	return &StatusPoller{
		gateway:        gateway,
		paymentRepo:    paymentRepo,
		paymentService: paymentService,
		interval:       cfg.PollInterval,
		grace:          cfg.PollGrace,
		maxAttempts:    cfg.PollAttempts,
		logg:           logg,
	}
}

func (p *StatusPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logg.Info("payment status poller started")

	for {
		select {
		case <-ctx.Done():
			p.logg.Info("payment status poller stopped")
			return
		case <-ticker.C:
			if err := p.process(ctx); err != nil {
				p.logg.Errorf("status poll failed: %v", err)
			}
		}
	}
}

func (p *StatusPoller) process(ctx context.Context) error {
	txns, err := p.paymentRepo.FindPendingBefore(ctx, time.Now().Add(-p.grace), pollBatchSize)
	if err != nil {
		return err
	}

	for _, txn := range txns {
		if err := p.poll(ctx, txn); err != nil {
			p.logg.WithFields(logrus.Fields{
				"order_id": txn.OrderID,
				"txn_id":   txn.ID,
			}).Warnf("poll failed: %v", err)
		}
	}
	return nil
}

func (p *StatusPoller) poll(ctx context.Context, txn *model.PaymentTransaction) error {
	st, err := p.gateway.TransactionStatus(ctx, txn.OrderID)
	if err != nil {
		return err
	}

	if st.TransactionStatus == "pending" || st.TransactionStatus == "" {
		if txn.PollCount+1 >= p.maxAttempts {
			// Retry budget exhausted: close the transaction out
			// locally as expired.
			return p.paymentService.ApplyStatus(ctx, txn, &model.TransactionStatus{
				TransactionID:     st.TransactionID,
				OrderID:           txn.OrderID,
				TransactionStatus: "expire",
			})
		}
		return p.paymentRepo.IncrementPollCount(ctx, txn.ID)
	}

	return p.paymentService.ApplyStatus(ctx, txn, st)
}
