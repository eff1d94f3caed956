package database

import (
	"fmt"
	"log"

	"github.com/supermart/billing-engine/internal/config"
	"github.com/supermart/billing-engine/internal/domain/entity"
	"github.com/supermart/billing-engine/internal/domain/enum"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Collaborator entities
		&entity.Product{},
		&entity.Customer{},

		// Billing entities
		&entity.Bill{},
		&entity.LineItem{},
		&entity.Payment{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData seeds a handful of products and one customer per tier so a
// fresh database can settle bills immediately
func SeedDemoData(db *gorm.DB) error {
	log.Println("Seeding demo data...")

	products := []entity.Product{
		{Name: "Basmati Rice 5kg", Code: "RICE-5KG", Unit: "bag", Quantity: 120, QuantityAlert: 20, SellingPrice: 64900, TaxRate: 5},
		{Name: "Sunflower Oil 1L", Code: "OIL-SUN-1L", Unit: "bottle", Quantity: 200, QuantityAlert: 30, SellingPrice: 14500, TaxRate: 5},
		{Name: "Toothpaste 150g", Code: "TP-150", Unit: "pcs", Quantity: 80, QuantityAlert: 15, SellingPrice: 9900, TaxRate: 18},
		{Name: "Detergent 2kg", Code: "DET-2KG", Unit: "box", Quantity: 60, QuantityAlert: 10, SellingPrice: 25000, TaxRate: 18},
		{Name: "Milk 500ml", Code: "MILK-500", Unit: "packet", Quantity: 300, QuantityAlert: 50, SellingPrice: 2800, TaxRate: 0},
	}

	for i := range products {
		products[i].Active = true
		var existing entity.Product
		if err := db.Where("code = ?", products[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Printf("Warning: failed to seed product %s: %v", products[i].Code, err)
			}
		}
	}

	customers := []entity.Customer{
		{Name: "Walk-in Regular", Tier: enum.CustomerTierStandard},
		{Name: "Asha Pillai", Tier: enum.CustomerTierLoyal, LoyaltyPoints: 120},
		{Name: "Rohan Mehta", Tier: enum.CustomerTierVIP, LoyaltyPoints: 450},
	}

	for i := range customers {
		var existing entity.Customer
		if err := db.Where("name = ?", customers[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&customers[i]).Error; err != nil {
				log.Printf("Warning: failed to seed customer %s: %v", customers[i].Name, err)
			}
		}
	}

	log.Println("Demo data seeding completed")
	return nil
}
