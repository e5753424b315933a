// Package migrations owns the database schema of every bounded context.
package migrations

import (
	"gorm.io/gorm"

	orderspostgres "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/persistence/postgres"
	storespostgres "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/persistence/postgres"
)

// Models returns the gorm models in dependency order.
func Models() []any {
	models := append([]any{}, storespostgres.Models()...)
	return append(models, orderspostgres.Models()...)
}

// Run applies the schema. A nil db is a no-op so memory-backed runs can call it unconditionally.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(Models()...)
}
