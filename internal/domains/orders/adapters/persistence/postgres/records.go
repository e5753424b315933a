package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

// Models lists the tables owned by this adapter, for schema migration.
func Models() []any {
	return []any{&orderRecord{}, &lineItemRecord{}}
}

type clientColumns struct {
	ID       int64      `gorm:"column:id"`
	Name     string     `gorm:"column:name"`
	CPF      string     `gorm:"column:cpf;size:11"`
	Email    string     `gorm:"column:email"`
	Birthday *time.Time `gorm:"column:birthday;type:date"`
}

type addressColumns struct {
	ID              int64  `gorm:"column:id"`
	Street          string `gorm:"column:street"`
	Number          string `gorm:"column:number"`
	District        string `gorm:"column:district"`
	City            string `gorm:"column:city"`
	CEP             string `gorm:"column:cep;size:8"`
	State           string `gorm:"column:state"`
	TypeID          int64  `gorm:"column:type_id"`
	TypeDescription string `gorm:"column:type_description"`
}

// orderRecord stores the client and address snapshots inline; they are never
// shared between orders.
type orderRecord struct {
	ID           int64            `gorm:"primaryKey;column:id;autoIncrement:false"`
	State        string           `gorm:"column:state;size:16"`
	CreatedOn    *time.Time       `gorm:"column:created_on;type:date"`
	DispatchedOn *time.Time       `gorm:"column:dispatched_on;type:date"`
	DeliveredOn  *time.Time       `gorm:"column:delivered_on;type:date"`
	TotalValue   decimal.Decimal  `gorm:"column:total_value;type:numeric(19,2)"`
	StoreID      int64            `gorm:"column:store_id;index"`
	StoreEmail   string           `gorm:"column:store_email"`
	Client       clientColumns    `gorm:"embedded;embeddedPrefix:client_"`
	Address      addressColumns   `gorm:"embedded;embeddedPrefix:address_"`
	Items        []lineItemRecord `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineItemRecord struct {
	OrderID  int64           `gorm:"primaryKey;column:order_id;autoIncrement:false"`
	Position int             `gorm:"primaryKey;column:position;autoIncrement:false"`
	Code     string          `gorm:"column:code"`
	Quantity int64           `gorm:"column:quantity"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(19,2)"`
}

func (lineItemRecord) TableName() string { return "order_items" }

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:           order.ID,
		State:        string(order.State),
		CreatedOn:    datePtr(order.CreatedOn),
		DispatchedOn: datePtr(order.DispatchedOn),
		DeliveredOn:  datePtr(order.DeliveredOn),
		TotalValue:   order.TotalValue,
		StoreID:      order.Store.ID,
		StoreEmail:   order.Store.Email,
	}
	if c := order.Client; c != nil {
		record.Client = clientColumns{ID: c.ID, Name: c.Name, CPF: c.CPF, Email: c.Email, Birthday: datePtr(c.Birthday)}
	}
	if a := order.Address; a != nil {
		record.Address = addressColumns{
			ID:              a.ID,
			Street:          a.Street,
			Number:          a.Number,
			District:        a.District,
			City:            a.City,
			CEP:             a.CEP,
			State:           a.State,
			TypeID:          a.Type.ID,
			TypeDescription: a.Type.Description,
		}
	}
	record.Items = make([]lineItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		record.Items = append(record.Items, lineItemRecord{
			OrderID:  order.ID,
			Position: i,
			Code:     item.Code,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	client := &domain.Client{
		ID:       r.Client.ID,
		Name:     r.Client.Name,
		CPF:      r.Client.CPF,
		Email:    r.Client.Email,
		Birthday: dateValue(r.Client.Birthday),
	}
	order := &domain.Order{
		ID:           r.ID,
		State:        domain.State(r.State),
		CreatedOn:    dateValue(r.CreatedOn),
		DispatchedOn: dateValue(r.DispatchedOn),
		DeliveredOn:  dateValue(r.DeliveredOn),
		TotalValue:   r.TotalValue,
		Store:        domain.StoreRef{ID: r.StoreID, Email: r.StoreEmail},
		Client:       client,
		Address: &domain.Address{
			ID:       r.Address.ID,
			Street:   r.Address.Street,
			Number:   r.Address.Number,
			District: r.Address.District,
			City:     r.Address.City,
			CEP:      r.Address.CEP,
			State:    r.Address.State,
			Type:     domain.AddressType{ID: r.Address.TypeID, Description: r.Address.TypeDescription},
			Client:   client,
		},
		Items: make([]domain.LineItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			Code:     item.Code,
			Quantity: item.Quantity,
			Price:    item.Price,
			OrderID:  item.OrderID,
		})
	}
	return order
}

func datePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	day := domain.Day(t)
	return &day
}

func dateValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return domain.Day(*t)
}
