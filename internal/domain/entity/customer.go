package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a customer with purchase statistics and a loyalty
// balance. The statistics fields are only mutated through the settlement
// operations (apply/reverse purchase), never written directly.
type Customer struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name           string            `gorm:"size:255;not null" json:"name"`
	Email          *string           `gorm:"size:255" json:"email,omitempty"`
	Phone          *string           `gorm:"size:50" json:"phone,omitempty"`
	Address        *string           `gorm:"type:text" json:"address,omitempty"`
	Tier           enum.CustomerTier `gorm:"size:50;default:'standard'" json:"tier"`
	LoyaltyPoints  int64             `gorm:"default:0" json:"loyalty_points"`
	TotalSpend     int64             `gorm:"default:0" json:"-"`
	PurchaseCount  int               `gorm:"default:0" json:"purchase_count"`
	AvgOrderValue  int64             `gorm:"default:0" json:"-"`
	LastPurchaseAt *time.Time        `json:"last_purchase_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Bills []Bill `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON converts paise fields to decimal for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		TotalSpend    float64 `json:"total_spend"`
		AvgOrderValue float64 `json:"average_order_value"`
	}{
		Alias:         Alias(c),
		TotalSpend:    float64(c.TotalSpend) / 100,
		AvgOrderValue: float64(c.AvgOrderValue) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
