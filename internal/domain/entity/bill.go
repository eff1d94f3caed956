package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"gorm.io/gorm"
)

// Bill is the aggregate root of a settled sale. Monetary fields are stored
// in paise (minor units) and converted to decimal only when marshalled.
// Bills are soft-deleted at most; a bill number is never reused.
type Bill struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillNo         string             `gorm:"size:100;unique;not null" json:"bill_no"`
	BillDate       time.Time          `gorm:"not null;index" json:"bill_date"`
	CustomerID     *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CashierID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Status         enum.BillStatus    `gorm:"default:0;index" json:"status"`
	SubTotal       int64              `gorm:"default:0" json:"-"`
	TotalDiscount  int64              `gorm:"default:0" json:"-"`
	TotalTax       int64              `gorm:"default:0" json:"-"`
	DeliveryCharge int64              `gorm:"default:0" json:"-"`
	GrandTotal     int64              `gorm:"default:0" json:"-"`
	PaymentMethod  enum.PaymentMethod `gorm:"size:50" json:"payment_method"`
	PaymentStatus  enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`
	AmountPaid     int64              `gorm:"default:0" json:"-"`
	AmountDue      int64              `gorm:"default:0" json:"-"`
	RefundedAmount int64              `gorm:"default:0" json:"-"`
	PointsUsed     int64              `gorm:"default:0" json:"loyalty_points_used"`
	PointsEarned   int64              `gorm:"default:0" json:"loyalty_points_earned"`
	Notes          string             `gorm:"type:text" json:"notes,omitempty"`
	CancelReason   string             `gorm:"type:text" json:"cancel_reason,omitempty"`
	OriginalBillID *uuid.UUID         `gorm:"type:uuid;index" json:"original_bill_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []LineItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// MarshalJSON converts paise fields to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		TotalDiscount  float64 `json:"total_discount"`
		TotalTax       float64 `json:"total_tax"`
		DeliveryCharge float64 `json:"delivery_charge"`
		GrandTotal     float64 `json:"grand_total"`
		AmountPaid     float64 `json:"amount_paid"`
		AmountDue      float64 `json:"amount_due"`
		RefundedAmount float64 `json:"refunded_amount"`
	}{
		Alias:          Alias(b),
		SubTotal:       float64(b.SubTotal) / 100,
		TotalDiscount:  float64(b.TotalDiscount) / 100,
		TotalTax:       float64(b.TotalTax) / 100,
		DeliveryCharge: float64(b.DeliveryCharge) / 100,
		GrandTotal:     float64(b.GrandTotal) / 100,
		AmountPaid:     float64(b.AmountPaid) / 100,
		AmountDue:      float64(b.AmountDue) / 100,
		RefundedAmount: float64(b.RefundedAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// IsPaidInFull reports whether the grand total is fully covered by payments
// and redeemed points
func (b *Bill) IsPaidInFull() bool {
	return b.PaymentStatus == enum.PaymentStatusPaid
}

// LineItem is one priced, taxed product entry within a bill. Name, code,
// unit and price are snapshotted from the product at bill-creation time and
// never re-read from the live product afterwards.
type LineItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BillID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName    string         `gorm:"size:255;not null" json:"product_name"`
	ProductCode    string         `gorm:"size:100;not null" json:"product_code"`
	Unit           string         `gorm:"size:50" json:"unit"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	UnitPrice      int64          `gorm:"not null" json:"-"`
	DiscountPct    float64        `gorm:"default:0" json:"discount_percentage"`
	DiscountAmount int64          `gorm:"default:0" json:"-"`
	TaxRate        float64        `gorm:"default:0" json:"tax_rate"`
	TaxAmount      int64          `gorm:"default:0" json:"-"`
	LineTotal      int64          `gorm:"not null" json:"-"`
	RefundedQty    int            `gorm:"default:0" json:"refunded_quantity"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON converts paise fields to decimal for API responses
func (li LineItem) MarshalJSON() ([]byte, error) {
	type Alias LineItem
	return json.Marshal(&struct {
		Alias
		UnitPrice      float64 `json:"unit_price"`
		DiscountAmount float64 `json:"discount_amount"`
		TaxAmount      float64 `json:"tax_amount"`
		LineTotal      float64 `json:"line_total"`
	}{
		Alias:          Alias(li),
		UnitPrice:      float64(li.UnitPrice) / 100,
		DiscountAmount: float64(li.DiscountAmount) / 100,
		TaxAmount:      float64(li.TaxAmount) / 100,
		LineTotal:      float64(li.LineTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new line item
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LineItem model
func (LineItem) TableName() string {
	return "bill_items"
}

// Payment is one tender applied to (or refunded from) a bill
type Payment struct {
	ID        uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID                `gorm:"type:uuid;not null;index" json:"bill_id"`
	Method    enum.PaymentMethod       `gorm:"size:50;not null" json:"method"`
	Amount    int64                    `gorm:"not null" json:"-"`
	Reference string                   `gorm:"size:100" json:"reference,omitempty"`
	Status    enum.PaymentRecordStatus `gorm:"size:50;not null" json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

// MarshalJSON converts the paise amount to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "bill_payments"
}
