package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
)

// Models lists the tables owned by this adapter, for schema migration.
func Models() []any {
	return []any{&storeRecord{}, &productRecord{}, &sessionRecord{}}
}

type storeRecord struct {
	ID            int64     `gorm:"primaryKey;column:id;autoIncrement"`
	CNPJ          string    `gorm:"column:cnpj;size:14;uniqueIndex"`
	CorporateName string    `gorm:"column:corporate_name;size:50"`
	Email         string    `gorm:"column:email;uniqueIndex"`
	Phone         string    `gorm:"column:phone;size:11;uniqueIndex"`
	PasswordHash  string    `gorm:"column:password_hash"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id;autoIncrement"`
	StoreID     int64           `gorm:"column:store_id;uniqueIndex:idx_products_store_code"`
	Code        string          `gorm:"column:code;uniqueIndex:idx_products_store_code"`
	Name        string          `gorm:"column:name;size:50"`
	Description string          `gorm:"column:description;size:500"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(19,2)"`
	Quantity    int64           `gorm:"column:quantity"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Email     string     `gorm:"column:email;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "store_sessions" }

func toStoreRecord(store *domain.Store) storeRecord {
	return storeRecord{
		ID:            store.ID,
		CNPJ:          store.CNPJ,
		CorporateName: store.CorporateName,
		Email:         store.Email,
		Phone:         store.Phone,
		PasswordHash:  store.PasswordHash,
	}
}

func (r storeRecord) toDomain() *domain.Store {
	return &domain.Store{
		ID:            r.ID,
		CNPJ:          r.CNPJ,
		CorporateName: r.CorporateName,
		Email:         r.Email,
		Phone:         r.Phone,
		PasswordHash:  r.PasswordHash,
	}
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		StoreID:     product.StoreID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		StoreID:     r.StoreID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}
