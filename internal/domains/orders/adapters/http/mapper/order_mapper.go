package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// Order is the JSON shape of an order, shared by the HTTP API and the broker payloads.
type Order struct {
	ID              int64           `json:"id" validate:"gt=0"`
	State           string          `json:"state,omitempty"`
	OrderCreated    Date            `json:"orderCreated"`
	OrderDispatched Date            `json:"orderDispatched"`
	OrderDelivered  Date            `json:"orderDelivered"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	Address         *Address        `json:"address" validate:"required"`
	Client          *Client         `json:"client" validate:"required"`
	Store           Store           `json:"store"`
	Products        []LineItem      `json:"products" validate:"required,min=1,dive"`
}

type Address struct {
	ID       int64       `json:"id"`
	Street   string      `json:"street" validate:"required"`
	Number   string      `json:"number" validate:"required,max=9,digits"`
	District string      `json:"district" validate:"required"`
	City     string      `json:"city" validate:"required"`
	CEP      string      `json:"cep" validate:"required,len=8,digits"`
	State    string      `json:"state" validate:"required"`
	Type     AddressType `json:"type"`
}

type AddressType struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Client struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required"`
	CPF      string `json:"cpf" validate:"required,len=11,digits"`
	Email    string `json:"email" validate:"omitempty,email"`
	Birthday Date   `json:"birthday"`
}

type Store struct {
	ID    int64  `json:"id" validate:"gt=0"`
	Email string `json:"email,omitempty"`
}

type LineItem struct {
	Code     string          `json:"code" validate:"required"`
	Quantity int64           `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price"`
}

// StateChange is the body of PATCH /v1/stores/orders/:id.
type StateChange struct {
	State string `json:"state" validate:"required"`
}

// OrderPage is one page of orders.
type OrderPage struct {
	Content       []Order `json:"content"`
	Page          int     `json:"page"`
	Size          int     `json:"size"`
	TotalElements int     `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
}

// ToDomainOrder converts an inbound payload. State is left to the engine.
func ToDomainOrder(dto Order) *domain.Order {
	order := &domain.Order{
		ID:           dto.ID,
		CreatedOn:    dto.OrderCreated.Time,
		DispatchedOn: dto.OrderDispatched.Time,
		DeliveredOn:  dto.OrderDelivered.Time,
		TotalValue:   dto.TotalValue,
		Store:        domain.StoreRef{ID: dto.Store.ID, Email: dto.Store.Email},
		Items:        make([]domain.LineItem, 0, len(dto.Products)),
	}
	if dto.State != "" {
		if state, err := domain.ParseState(dto.State); err == nil {
			order.State = state
		} else {
			order.State = domain.State(dto.State)
		}
	}
	if c := dto.Client; c != nil {
		order.Client = &domain.Client{ID: c.ID, Name: c.Name, CPF: c.CPF, Email: c.Email, Birthday: c.Birthday.Time}
	}
	if a := dto.Address; a != nil {
		order.Address = &domain.Address{
			ID:       a.ID,
			Street:   a.Street,
			Number:   a.Number,
			District: a.District,
			City:     a.City,
			CEP:      a.CEP,
			State:    a.State,
			Type:     domain.AddressType{ID: a.Type.ID, Description: a.Type.Description},
		}
	}
	for _, p := range dto.Products {
		order.Items = append(order.Items, domain.LineItem{Code: p.Code, Quantity: p.Quantity, Price: p.Price})
	}
	return order
}

func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	dto := Order{
		ID:              order.ID,
		State:           order.State.Label(),
		OrderCreated:    NewDate(order.CreatedOn),
		OrderDispatched: NewDate(order.DispatchedOn),
		OrderDelivered:  NewDate(order.DeliveredOn),
		TotalValue:      order.TotalValue,
		Store:           Store{ID: order.Store.ID, Email: order.Store.Email},
		Products:        make([]LineItem, 0, len(order.Items)),
	}
	if c := order.Client; c != nil {
		dto.Client = &Client{ID: c.ID, Name: c.Name, CPF: c.CPF, Email: c.Email, Birthday: NewDate(c.Birthday)}
	}
	if a := order.Address; a != nil {
		dto.Address = &Address{
			ID:       a.ID,
			Street:   a.Street,
			Number:   a.Number,
			District: a.District,
			City:     a.City,
			CEP:      a.CEP,
			State:    a.State,
			Type:     AddressType{ID: a.Type.ID, Description: a.Type.Description},
		}
	}
	for _, item := range order.Items {
		dto.Products = append(dto.Products, LineItem{Code: item.Code, Quantity: item.Quantity, Price: item.Price})
	}
	return dto
}

func FromOrderPage(page pagination.Page[*domain.Order]) OrderPage {
	converted := pagination.Map(page, FromDomainOrder)
	return OrderPage{
		Content:       converted.Items,
		Page:          converted.Number,
		Size:          converted.Size,
		TotalElements: converted.TotalItems,
		TotalPages:    converted.TotalPages,
	}
}
