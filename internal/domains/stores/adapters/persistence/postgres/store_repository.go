package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	platformpostgres "github.com/Apurer/store-orders-api/internal/platform/postgres"
)

var _ ports.Repository = (*StoreRepository)(nil)

// StoreRepository persists stores in PostgreSQL using GORM.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	record := toStoreRecord(store)
	record.ID = 0
	if err := platformpostgres.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *StoreRepository) GetByEmail(ctx context.Context, email string) (*domain.Store, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *StoreRepository) Conflicts(ctx context.Context, cnpj, email, phone string) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []storeRecord
	if err := platformpostgres.Conn(ctx, r.db).
		Where("cnpj = ? OR email = ? OR phone = ?", cnpj, email, phone).
		Find(&records).Error; err != nil {
		return nil, err
	}
	var fields []string
	for _, candidate := range []struct {
		name  string
		match func(storeRecord) bool
	}{
		{"cnpj", func(rec storeRecord) bool { return rec.CNPJ == cnpj }},
		{"email", func(rec storeRecord) bool { return rec.Email == email }},
		{"phone", func(rec storeRecord) bool { return rec.Phone == phone }},
	} {
		for _, rec := range records {
			if candidate.match(rec) {
				fields = append(fields, candidate.name)
				break
			}
		}
	}
	return fields, nil
}

func (r *StoreRepository) first(ctx context.Context, query string, arg any) (*domain.Store, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record storeRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *StoreRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres store repository not configured")
	}
	return nil
}
