package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	storestypes "github.com/Apurer/store-orders-api/internal/domains/stores/application/types"
	storesdomain "github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// RegisterStore is the body of a store registration request.
type RegisterStore struct {
	CNPJ          string `json:"cnpj" validate:"required,len=14,digits"`
	CorporateName string `json:"corporateName" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,len=11,digits"`
	Password      string `json:"password" validate:"required,min=3"`
}

// Store is the public view of a store; the password hash never leaves the service.
type Store struct {
	ID            int64  `json:"id"`
	CNPJ          string `json:"cnpj"`
	CorporateName string `json:"corporateName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned after a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewProduct is the body of a product registration request.
type NewProduct struct {
	Code        string          `json:"code" validate:"required"`
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity" validate:"gte=0"`
}

// ProductUpdate is the body of a full product replacement, stock included.
type ProductUpdate struct {
	Code        string          `json:"code" validate:"required"`
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity" validate:"gte=0"`
}

// Product is the transport representation of a catalog entry.
type Product struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

// ProductPage is one page of products.
type ProductPage struct {
	Content       []Product `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

func ToRegisterStoreInput(req RegisterStore) storestypes.RegisterStoreInput {
	return storestypes.RegisterStoreInput{
		CNPJ:          req.CNPJ,
		CorporateName: req.CorporateName,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
	}
}

func FromDomainStore(store *storesdomain.Store) Store {
	if store == nil {
		return Store{}
	}
	return Store{
		ID:            store.ID,
		CNPJ:          store.CNPJ,
		CorporateName: store.CorporateName,
		Email:         store.Email,
		Phone:         store.Phone,
	}
}

func FromSession(session storesports.Session) Session {
	return Session{Token: session.Token, ExpiresAt: session.ExpiresAt}
}

func ToAddProductInput(req NewProduct) storestypes.AddProductInput {
	return storestypes.AddProductInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}

func ToUpdateProductInput(req ProductUpdate) storestypes.UpdateProductInput {
	return storestypes.UpdateProductInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}

func FromDomainProduct(product *storesdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:          product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
	}
}

func FromProductPage(page pagination.Page[*storesdomain.Product]) ProductPage {
	converted := pagination.Map(page, FromDomainProduct)
	return ProductPage{
		Content:       converted.Items,
		Page:          converted.Number,
		Size:          converted.Size,
		TotalElements: converted.TotalItems,
		TotalPages:    converted.TotalPages,
	}
}
