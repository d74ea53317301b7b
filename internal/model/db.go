package model

import "time"

type Service struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"size:64;uniqueIndex;not null"`
	Name        string `gorm:"size:128;not null"`
	ServiceType string `gorm:"size:32;index;not null"` // service_device, project, retainer
	BasePrice   int64  `gorm:"not null"`               // whole rupiah
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:128;uniqueIndex;not null"`
	Phone     string `gorm:"size:32;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	OrderID     string `gorm:"primaryKey;size:64;not null"` // ORD-YYYYMMDD-xxxxxxxx, also the gateway order id
	CustomerID  uint   `gorm:"index;not null"`
	ServiceID   uint   `gorm:"index;not null"`
	ServiceType string `gorm:"size:32;not null"`
	Status      string `gorm:"size:32;index;not null"` // pending_payment, deposit_paid, paid, failed, expired, refunded
	VoucherCode string `gorm:"size:32;index"`

	// amount snapshot, whole rupiah
	Subtotal     int64 `gorm:"not null"`
	Discount     int64 `gorm:"not null"`
	DPP          int64 `gorm:"not null"`
	PPN          int64 `gorm:"not null"`
	Fee          int64 `gorm:"not null"`
	ShippingCost int64 `gorm:"not null"`
	GrandTotal   int64 `gorm:"not null"`
	Deposit      int64 `gorm:"not null"`
	Remaining    int64 `gorm:"not null"`

	Notes     string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentTransaction struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       string `gorm:"size:64;index;not null"`
	Purpose       string `gorm:"size:16;not null"`       // deposit, full, remaining
	Status        string `gorm:"size:32;index;not null"` // pending, settlement, failed, expired, refunded
	GrossAmount   int64  `gorm:"not null"`
	SnapToken     string `gorm:"size:128"`
	GatewayTxnID  string `gorm:"size:64;index"`
	PaymentType   string `gorm:"size:32"` // bank_transfer, qris, gopay, ...
	PollCount     int    `gorm:"not null;default:0"`
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Voucher struct {
	Code       string `gorm:"primaryKey;size:32;not null"`
	Type       string `gorm:"size:16;not null"` // percent, nominal
	Value      int64  `gorm:"not null"`         // percent points or rupiah
	MinSpend   int64  `gorm:"not null"`
	UsageLimit int    `gorm:"not null"` // 0 = unlimited
	UsedCount  int    `gorm:"not null;default:0"`
	Active     bool   `gorm:"not null;default:true"`
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WebhookLog struct {
	EventKey    string `gorm:"primaryKey;size:128;not null"` // <gateway txn id>:<transaction status>
	OrderID     string `gorm:"size:64;index"`
	EventStatus string `gorm:"size:32"`
	RawPayload  string `gorm:"type:text"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
