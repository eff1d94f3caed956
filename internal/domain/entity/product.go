package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product in the inventory. SellingPrice is stored in
// paise; TaxRate is a percentage applied after per-line discounts.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Unit          string         `gorm:"size:50;default:'pcs'" json:"unit"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	SellingPrice  int64          `gorm:"default:0" json:"-"`
	TaxRate       float64        `gorm:"default:0" json:"tax_rate"`
	Active        bool           `gorm:"default:true" json:"active"`
	SalesCount    int            `gorm:"default:0" json:"sales_count"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetSellingPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetSellingPriceDecimal() float64 {
	return float64(p.SellingPrice) / 100
}

// SetSellingPriceFromDecimal sets the selling price from a decimal value,
// rounding to whole paise (145.35 stores 14535, not the truncated 14534)
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(math.Round(price * 100))
}

// MarshalJSON converts the paise price to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		SellingPrice: p.GetSellingPriceDecimal(),
	})
}
