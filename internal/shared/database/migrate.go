package database

import (
	"fmt"
	"time"

	"github.com/carzone/server/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaMigration records an applied migration.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// Migration is one versioned schema change.
type Migration struct {
	Version string
	Up      func(tx *gorm.DB) error
}

// Migrations returns every schema migration in the order they apply.
func Migrations() []Migration {
	return []Migration{
		{Version: "0001_base_schema", Up: migrateBaseSchema},
		{Version: "0002_add_payment_fields_to_orders", Up: migratePaymentFields},
		{Version: "0003_create_cart_items", Up: migrateCartItems},
	}
}

// Migrate applies pending migrations, each in its own transaction.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	return runMigrations(db, Migrations(), log)
}

func runMigrations(db *gorm.DB, migrations []Migration, log *zap.Logger) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		log.Info("migration applied", zap.String("version", m.Version))
	}
	return nil
}

func migrateBaseSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.WebhookEvent{},
		&model.Review{},
	)
}

// migratePaymentFields adds the payment columns to databases created before
// orders tracked payment intents.
func migratePaymentFields(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, field := range []string{"PaymentIntentID", "PaymentDate", "PaymentStatus", "PaymentProvider"} {
		if m.HasColumn(&model.Order{}, field) {
			continue
		}
		if err := m.AddColumn(&model.Order{}, field); err != nil {
			return fmt.Errorf("add orders.%s: %w", field, err)
		}
	}
	return nil
}

func migrateCartItems(tx *gorm.DB) error {
	if tx.Migrator().HasTable(&model.CartItem{}) {
		return nil
	}
	return tx.Migrator().CreateTable(&model.CartItem{})
}
