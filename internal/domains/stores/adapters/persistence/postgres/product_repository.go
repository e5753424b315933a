package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	platformpostgres "github.com/Apurer/store-orders-api/internal/platform/postgres"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in PostgreSQL. Calls made inside a
// unit of work use its transaction.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	record.ID = 0
	if err := platformpostgres.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateProduct
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save writes the mutable product columns back. Stock is written as an
// absolute value read earlier in the same call, not as a relative update.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toProductRecord(product)
	result := platformpostgres.Conn(ctx, r.db).
		Model(&productRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"code":        record.Code,
			"name":        record.Name,
			"description": record.Description,
			"price":       record.Price,
			"quantity":    record.Quantity,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateProduct
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpostgres.Conn(ctx, r.db).Where("id = ?", id).Delete(&productRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProductRepository) FindByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Product, error) {
	return r.first(ctx, "store_id = ? AND code = ?", storeID, code)
}

func (r *ProductRepository) ListByStore(ctx context.Context, storeID int64) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := platformpostgres.Conn(ctx, r.db).Where("store_id = ?", storeID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *ProductRepository) first(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := platformpostgres.Conn(ctx, r.db).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}
