package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductCode    = errors.New("product code is required")
	ErrEmptyProductName    = errors.New("product name is required")
	ErrProductNameTooLong  = errors.New("product name must be at most 50 characters")
	ErrDescriptionTooLong  = errors.New("product description must be at most 500 characters")
	ErrNegativePrice       = errors.New("product price must not be negative")
	ErrPricePrecision      = errors.New("product price must have at most 2 decimal places")
	ErrNegativeQuantity    = errors.New("product quantity must not be negative")
	ErrMissingProductStore = errors.New("product store is required")
)

// Product is a catalog entry and its stock count, unique per (store, code).
type Product struct {
	ID          int64
	StoreID     int64
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
}

// NewProduct validates the catalog fields of a product being registered.
func NewProduct(storeID int64, code, name, description string, price decimal.Decimal, quantity int64) (*Product, error) {
	product := &Product{
		StoreID:     storeID,
		Code:        strings.TrimSpace(code),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Quantity:    quantity,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if product.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	return product, nil
}

// Validate checks catalog fields. Stock is not checked here because order
// fulfillment may drive it below zero.
func (p *Product) Validate() error {
	if p.StoreID <= 0 {
		return ErrMissingProductStore
	}
	if p.Code == "" {
		return ErrEmptyProductCode
	}
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if len([]rune(p.Name)) > 50 {
		return ErrProductNameTooLong
	}
	if len([]rune(p.Description)) > 500 {
		return ErrDescriptionTooLong
	}
	return checkPrice(p.Price)
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !price.Equal(price.Round(2)) {
		return ErrPricePrecision
	}
	return nil
}

// Revise replaces the catalog fields and stock of an existing product.
// On error p is left unchanged.
func (p *Product) Revise(code, name, description string, price decimal.Decimal, quantity int64) error {
	revised, err := NewProduct(p.StoreID, code, name, description, price, quantity)
	if err != nil {
		return err
	}
	revised.ID = p.ID
	*p = *revised
	return nil
}

// ChangePrice sets a new non-negative unit price in whole cents.
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if err := checkPrice(price); err != nil {
		return err
	}
	p.Price = price
	return nil
}

// Withdraw removes qty units from stock without a floor at zero.
func (p *Product) Withdraw(qty int64) {
	p.Quantity -= qty
}
