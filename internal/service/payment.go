package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agency-checkout/internal/client"
	"agency-checkout/internal/model"
	"agency-checkout/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrMalformedPayload = errors.New("malformed notification payload")
)

type PaymentService interface {
	// HandleNotification processes a raw gateway webhook body. Replayed
	// notifications are acknowledged without reprocessing.
	HandleNotification(ctx context.Context, body []byte) error

	// ApplyStatus applies a gateway transaction status to a stored payment
	// transaction and its order. Shared by the webhook path and the poller.
	ApplyStatus(ctx context.Context, txn *model.PaymentTransaction, st *model.TransactionStatus) error
}

type paymentServiceImpl struct {
	db             *gorm.DB
	gateway        client.MidtransClient
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	webhookLogRepo repository.WebhookLogRepository
	logg           *logrus.Logger
}

func NewPaymentService(
	db *gorm.DB,
	gateway client.MidtransClient,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	webhookLogRepo repository.WebhookLogRepository,
	logg *logrus.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:             db,
		gateway:        gateway,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		webhookLogRepo: webhookLogRepo,
		logg:           logg,
	}
}

func (s *paymentServiceImpl) HandleNotification(ctx context.Context, body []byte) error {
	var st model.TransactionStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if !s.gateway.VerifySignature(&st) {
		return ErrInvalidSignature
	}

	eventKey := st.TransactionID + ":" + st.TransactionStatus
	seen, err := s.webhookLogRepo.Exists(eventKey)
	if err != nil {
		return fmt.Errorf("check webhook log: %w", err)
	}
	if seen {
		s.logg.WithFields(logrus.Fields{
			"order_id":  st.OrderID,
			"event_key": eventKey,
		}).Info("duplicate notification, skipping")
		return nil
	}

	txn, err := s.paymentRepo.FindPendingByOrderID(ctx, st.OrderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find pending transaction: %w", err)
	}

	if txn != nil {
		if err := s.ApplyStatus(ctx, txn, &st); err != nil {
			return err
		}
	} else {
		// Nothing pending for this order (late retransmit after the
		// poller already resolved it); still record the event below.
		s.logg.WithField("order_id", st.OrderID).Info("notification with no pending transaction")
	}

	if err := s.webhookLogRepo.MarkProcessed(&model.WebhookLog{
		EventKey:    eventKey,
		OrderID:     st.OrderID,
		EventStatus: st.TransactionStatus,
		RawPayload:  string(body),
	}); err != nil {
		return fmt.Errorf("mark webhook processed: %w", err)
	}

	return nil
}

func (s *paymentServiceImpl) ApplyStatus(ctx context.Context, txn *model.PaymentTransaction, st *model.TransactionStatus) error {
	outcome := mapTransactionStatus(st)
	if outcome == "pending" {
		return nil
	}

	var paidAt *time.Time
	if outcome == "settlement" {
		now := time.Now()
		paidAt = &now
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.MarkStatus(ctx, tx, txn.ID, outcome, st.TransactionID, st.PaymentType, paidAt); err != nil {
			return fmt.Errorf("mark payment status: %w", err)
		}

		from, to := orderTransition(txn.Purpose, outcome)
		if to == "" {
			return nil
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, txn.OrderID, from, to); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Order already moved past this transition; the
				// payment row is updated, which is what matters.
				s.logg.WithFields(logrus.Fields{
					"order_id": txn.OrderID,
					"to":       to,
				}).Warn("order status transition skipped")
				return nil
			}
			return fmt.Errorf("update order status: %w", err)
		}

		if to == "deposit_paid" {
			return s.openRemainingTransaction(ctx, tx, txn.OrderID)
		}
		return nil
	})
}

// openRemainingTransaction queues the balance charge once a deposit settles,
// so RequestToken has a pending transaction to issue a token for.
func (s *paymentServiceImpl) openRemainingTransaction(ctx context.Context, tx *gorm.DB, orderID string) error {
	var order model.Order
	if err := tx.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return fmt.Errorf("find order for remaining charge: %w", err)
	}
	if order.Remaining <= 0 {
		return nil
	}

	return s.paymentRepo.Create(ctx, tx, &model.PaymentTransaction{
		OrderID:     orderID,
		Purpose:     "remaining",
		Status:      "pending",
		GrossAmount: order.Remaining,
	})
}

// mapTransactionStatus folds gateway statuses into the local payment
// transaction status set.
func mapTransactionStatus(st *model.TransactionStatus) string {
	switch st.TransactionStatus {
	case "capture":
		switch st.FraudStatus {
		case "challenge":
			return "pending"
		case "deny":
			return "failed"
		}
		return "settlement"
	case "settlement":
		return "settlement"
	case "deny", "cancel":
		return "failed"
	case "expire":
		return "expired"
	case "refund", "partial_refund":
		return "refunded"
	default:
		return "pending"
	}
}

// orderTransition returns the allowed source statuses and the target status
// for an order, given a resolved payment transaction.
func orderTransition(purpose, outcome string) (from []string, to string) {
	switch outcome {
	case "settlement":
		if purpose == "deposit" {
			return []string{"pending_payment"}, "deposit_paid"
		}
		return []string{"pending_payment", "deposit_paid"}, "paid"
	case "failed":
		return []string{"pending_payment"}, "failed"
	case "expired":
		return []string{"pending_payment"}, "expired"
	case "refunded":
		return []string{"deposit_paid", "paid"}, "refunded"
	}
	return nil, ""
}
