package types

import "github.com/shopspring/decimal"

// RegisterStoreInput carries the fields needed to open a new store account.
type RegisterStoreInput struct {
	CNPJ          string
	CorporateName string
	Email         string
	Phone         string
	Password      string
}

// AddProductInput carries a new catalog entry for the caller's store.
type AddProductInput struct {
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
}

// UpdateProductInput replaces every editable field of a product, stock included.
type UpdateProductInput struct {
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
}
