package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrTotalMismatch     = errors.New("order total does not equal subtotal + tax + shipping")
	ErrItemTotalMismatch = errors.New("item total does not equal quantity * unit price")
	ErrZeroQuantity      = errors.New("order item quantity must be positive")
)

// Order belongs to a user and owns its items and status history.
type Order struct {
	Base
	UserID          uuid.UUID     `gorm:"type:char(36);not null;index"`
	OrderNumber     string        `gorm:"size:50;not null;uniqueIndex"`
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	SubTotal        float64       `gorm:"not null"`
	TaxAmount       float64       `gorm:"not null"`
	ShippingCost    float64       `gorm:"not null"`
	Total           float64       `gorm:"not null"`
	OrderData       string        `gorm:"type:json"`
	Status          OrderStatus   `gorm:"size:20;not null;default:pending"`
	PaymentMethod   PaymentMethod `gorm:"size:20;not null;default:credit_card"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_"`
	BillingAddress  Address       `gorm:"embedded;embeddedPrefix:bill_"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// Recalculate derives Total from the three cost components.
func (o *Order) Recalculate() {
	o.Total = o.SubTotal + o.TaxAmount + o.ShippingCost
}

func (o *Order) Validate() error {
	if o.Total != o.SubTotal+o.TaxAmount+o.ShippingCost {
		return errors.Wrapf(ErrTotalMismatch, "order %s", o.OrderNumber)
	}
	return nil
}

func (o *Order) BeforeSave(*gorm.DB) error { return o.Validate() }

type OrderItem struct {
	Base
	OrderID     uuid.UUID `gorm:"type:char(36);not null;index"`
	ProductID   uuid.UUID `gorm:"type:char(36);not null;index"`
	ProductName string    `gorm:"size:200;not null"`
	Quantity    int       `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice   float64   `gorm:"not null"`
	TotalPrice  float64   `gorm:"not null"`
	Attributes  []string  `gorm:"serializer:json"`
}

func (OrderItem) TableName() string { return "order_items" }

// Recalculate derives TotalPrice from quantity and unit price.
func (it *OrderItem) Recalculate() {
	it.TotalPrice = float64(it.Quantity) * it.UnitPrice
}

func (it *OrderItem) Validate() error {
	if it.Quantity <= 0 {
		return errors.Wrapf(ErrZeroQuantity, "got %d", it.Quantity)
	}
	if it.TotalPrice != float64(it.Quantity)*it.UnitPrice {
		return errors.Wrapf(ErrItemTotalMismatch, "item %s", it.ProductName)
	}
	return nil
}

func (it *OrderItem) BeforeSave(*gorm.DB) error { return it.Validate() }

// OrderStatusHistory records a single status transition. ChangedByID is kept
// without a foreign key so history survives deletion of the acting user.
type OrderStatusHistory struct {
	Base
	OrderID     uuid.UUID   `gorm:"type:char(36);not null;index"`
	ChangedByID uuid.UUID   `gorm:"type:char(36)"`
	ChangedBy   string      `gorm:"size:100"`
	OldStatus   OrderStatus `gorm:"size:20;not null"`
	NewStatus   OrderStatus `gorm:"size:20;not null"`
	ChangedAt   time.Time   `gorm:"not null"`
	Reason      string      `gorm:"size:500"`
	Notes       string      `gorm:"size:1000"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
