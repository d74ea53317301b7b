package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-checkout/internal/client"
	"agency-checkout/internal/dto"
	"agency-checkout/internal/model"
	"agency-checkout/internal/pricing"
	"agency-checkout/internal/repository"
	"agency-checkout/internal/whatsapp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not awaiting payment")
)

// VoucherError carries a validation rejection reason back to the form.
type VoucherError struct {
	Reason string
}

func (e *VoucherError) Error() string {
	return fmt.Sprintf("voucher rejected: %s", e.Reason)
}

type CheckoutService interface {
	CreateOrder(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
	// RequestToken re-issues a Snap token for a pending order, the retry
	// path when the payment popup failed to open.
	RequestToken(ctx context.Context, orderID string) (*dto.TokenResponse, error)
	ListServices(ctx context.Context) ([]*dto.ServiceResponse, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*dto.OrderResponse, error)
}

type checkoutServiceImpl struct {
	db             *gorm.DB
	gateway        client.MidtransClient
	voucherService VoucherService
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	customerRepo   repository.CustomerRepository
	catalogRepo    repository.ServiceCatalogRepository
	voucherRepo    repository.VoucherRepository
	agencyPhone    string
	logg           *logrus.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	gateway client.MidtransClient,
	voucherService VoucherService,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	catalogRepo repository.ServiceCatalogRepository,
	voucherRepo repository.VoucherRepository,
	agencyPhone string,
	logg *logrus.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:             db,
		gateway:        gateway,
		voucherService: voucherService,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		customerRepo:   customerRepo,
		catalogRepo:    catalogRepo,
		voucherRepo:    voucherRepo,
		agencyPhone:    agencyPhone,
		logg:           logg,
	}
}

func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.Split(uuid.NewString(), "-")[0])
}

func (s *checkoutServiceImpl) CreateOrder(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	svc, err := s.catalogRepo.FindBySlug(ctx, req.ServiceSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}

	var (
		discount    int64
		voucherCode string
	)
	if req.VoucherCode != "" {
		voucher, d, reason, err := s.voucherService.Validate(ctx, req.VoucherCode, req.Subtotal)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			return nil, &VoucherError{Reason: reason}
		}
		discount = d
		voucherCode = voucher.Code
	}

	quote := pricing.Calculate(pricing.QuoteInput{
		ServiceType:  svc.ServiceType,
		Subtotal:     req.Subtotal,
		Discount:     discount,
		Fee:          req.Fee,
		ShippingCost: req.ShippingCost,
	})

	customer := &model.Customer{
		Name:  req.CustomerName,
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Phone: whatsapp.NormalizePhone(req.Phone),
	}
	if err := s.customerRepo.Upsert(ctx, s.db, customer); err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	customer, err = s.customerRepo.FindByEmail(ctx, customer.Email)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	order := &model.Order{
		OrderID:      newOrderID(time.Now()),
		CustomerID:   customer.ID,
		ServiceID:    svc.ID,
		ServiceType:  svc.ServiceType,
		Status:       "pending_payment",
		VoucherCode:  voucherCode,
		Subtotal:     quote.Subtotal,
		Discount:     quote.Discount,
		DPP:          quote.DPP,
		PPN:          quote.PPN,
		Fee:          quote.Fee,
		ShippingCost: quote.ShippingCost,
		GrandTotal:   quote.GrandTotal,
		Deposit:      quote.Deposit,
		Remaining:    quote.Remaining,
		Notes:        req.Notes,
	}

	txn := &model.PaymentTransaction{
		OrderID:     order.OrderID,
		Purpose:     "full",
		Status:      "pending",
		GrossAmount: quote.GrandTotal,
	}
	if quote.Deposit > 0 {
		txn.Purpose = "deposit"
		txn.GrossAmount = quote.Deposit
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if voucherCode != "" {
			if err := s.voucherRepo.Redeem(ctx, tx, voucherCode); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &VoucherError{Reason: ReasonUsageCap}
				}
				return fmt.Errorf("redeem voucher: %w", err)
			}
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.paymentRepo.Create(ctx, tx, txn); err != nil {
			return fmt.Errorf("store payment transaction in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResponse{
		OrderID:      order.OrderID,
		Status:       order.Status,
		Quote:        quote,
		WhatsAppLink: whatsapp.Link(s.agencyPhone, whatsapp.OrderMessage(order, customer, svc)),
	}

	// The order survives even when token creation exhausts its retries;
	// the client can ask again via RequestToken.
	snap, err := s.requestSnapToken(ctx, order, customer, svc, txn)
	if err != nil {
		s.logg.WithFields(logrus.Fields{
			"order_id": order.OrderID,
		}).Warnf("snap token creation failed: %v", err)
		return resp, nil
	}

	resp.SnapToken = snap.Token
	resp.RedirectURL = snap.RedirectURL
	return resp, nil
}

func (s *checkoutServiceImpl) requestSnapToken(
	ctx context.Context,
	order *model.Order,
	customer *model.Customer,
	svc *model.Service,
	txn *model.PaymentTransaction,
) (*model.SnapResponse, error) {
	itemName := svc.Name
	if txn.Purpose == "deposit" {
		itemName = fmt.Sprintf("%s (DP 50%%)", svc.Name)
	}

	snap, err := s.gateway.CreateSnapToken(ctx, &model.SnapRequest{
		TransactionDetails: model.SnapTransactionDetails{
			OrderID:     order.OrderID,
			GrossAmount: txn.GrossAmount,
		},
		CustomerDetails: model.SnapCustomerDetails{
			FirstName: customer.Name,
			Email:     customer.Email,
			Phone:     customer.Phone,
		},
		ItemDetails: []model.SnapItemDetail{
			{
				ID:       svc.Slug,
				Name:     itemName,
				Price:    txn.GrossAmount,
				Quantity: 1,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SetSnapToken(ctx, txn.ID, snap.Token); err != nil {
		return nil, fmt.Errorf("store snap token: %w", err)
	}

	return snap, nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	resp := orderResponse(order)

	if txn, err := s.paymentRepo.FindPendingByOrderID(ctx, orderID); err == nil {
		resp.Payment = &dto.PaymentInfo{
			Purpose:     txn.Purpose,
			Status:      txn.Status,
			GrossAmount: txn.GrossAmount,
			PaymentType: txn.PaymentType,
		}
	}

	return resp, nil
}

func (s *checkoutServiceImpl) RequestToken(ctx context.Context, orderID string) (*dto.TokenResponse, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if order.Status != "pending_payment" && order.Status != "deposit_paid" {
		return nil, ErrOrderNotPending
	}

	txn, err := s.paymentRepo.FindPendingByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotPending
		}
		return nil, fmt.Errorf("find pending transaction: %w", err)
	}

	customer, err := s.customerByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalogRepo.FindByID(ctx, order.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}

	snap, err := s.requestSnapToken(ctx, order, customer, svc, txn)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		OrderID:     orderID,
		SnapToken:   snap.Token,
		RedirectURL: snap.RedirectURL,
	}, nil
}

func (s *checkoutServiceImpl) customerByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

func (s *checkoutServiceImpl) ListServices(ctx context.Context) ([]*dto.ServiceResponse, error) {
	services, err := s.catalogRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	out := make([]*dto.ServiceResponse, len(services))
	for i, svc := range services {
		out[i] = &dto.ServiceResponse{
			ID:          svc.ID,
			Slug:        svc.Slug,
			Name:        svc.Name,
			ServiceType: svc.ServiceType,
			BasePrice:   svc.BasePrice,
			PriceLabel:  pricing.FormatIDR(svc.BasePrice),
		}
	}
	return out, nil
}

func (s *checkoutServiceImpl) ListOrders(ctx context.Context, limit, offset int) ([]*dto.OrderResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = orderResponse(order)
	}
	return out, nil
}

func orderResponse(order *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		OrderID:     order.OrderID,
		Status:      order.Status,
		ServiceType: order.ServiceType,
		Quote: pricing.Quote{
			ServiceType:  order.ServiceType,
			Subtotal:     order.Subtotal,
			Discount:     order.Discount,
			DPP:          order.DPP,
			PPN:          order.PPN,
			Fee:          order.Fee,
			ShippingCost: order.ShippingCost,
			GrandTotal:   order.GrandTotal,
			Deposit:      order.Deposit,
			Remaining:    order.Remaining,
		},
	}
}
