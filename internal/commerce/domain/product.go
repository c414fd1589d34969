package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrSalePriceAboveList = errors.New("sale price exceeds list price")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrReservedOverStock  = errors.New("reserved quantity exceeds stock quantity")
)

// Product is a root entity. Reviews and inventory rows are owned; order items
// only reference the product and block deletion while they exist.
type Product struct {
	Base
	Name           string            `gorm:"size:200;not null"`
	Description    string            `gorm:"size:1000"`
	SKU            string            `gorm:"size:100;not null;uniqueIndex"`
	Barcode        string            `gorm:"size:50"`
	Price          float64           `gorm:"not null"`
	SalePrice      *float64
	Cost           *float64
	Specifications string            `gorm:"type:json"`
	Tags           []string          `gorm:"serializer:json"`
	Categories     []string          `gorm:"serializer:json"`
	Images         []string          `gorm:"serializer:json"`
	Dimensions     ProductDimensions `gorm:"embedded;embeddedPrefix:dim_"`
	Weight         ProductWeight     `gorm:"embedded;embeddedPrefix:weight_"`
	DiscontinuedAt *time.Time
	Status         ProductStatus     `gorm:"size:20;not null;default:active"`
	Type           ProductType       `gorm:"size:20;not null;default:physical"`

	Reviews    []ProductReview    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Inventory  []ProductInventory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OrderItems []OrderItem        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (Product) TableName() string { return "products" }

// EffectivePrice is the price an order item is charged at: the sale price when
// one is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) Validate() error {
	if p.SalePrice != nil && *p.SalePrice > p.Price {
		return errors.Wrapf(ErrSalePriceAboveList, "product %s", p.SKU)
	}
	return nil
}

func (p *Product) BeforeSave(*gorm.DB) error { return p.Validate() }

type ProductReview struct {
	Base
	ProductID uuid.UUID    `gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID    `gorm:"type:char(36);not null;index"`
	Title     string       `gorm:"size:200;not null"`
	Comment   string       `gorm:"size:2000"`
	Rating    int          `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Status    ReviewStatus `gorm:"size:20;not null;default:pending"`
	Type      ReviewType   `gorm:"size:20;not null;default:product"`
}

func (ProductReview) TableName() string { return "product_reviews" }

func (r *ProductReview) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.Wrapf(ErrRatingOutOfRange, "got %d", r.Rating)
	}
	return nil
}

func (r *ProductReview) BeforeSave(*gorm.DB) error { return r.Validate() }

type ProductInventory struct {
	Base
	ProductID         uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_inventory_product_warehouse"`
	WarehouseCode     string          `gorm:"size:100;not null;uniqueIndex:idx_inventory_product_warehouse"`
	Location          string          `gorm:"size:200"`
	Quantity          int             `gorm:"not null"`
	ReservedQuantity  int             `gorm:"not null;default:0;check:chk_inventory_reserved,reserved_quantity <= quantity"`
	AvailableQuantity int             `gorm:"not null;default:0"`
	UnitCost          *float64
	UnitPrice         *float64
	LastRestocked     *time.Time
	ExpiryDate        *time.Time
	Status            InventoryStatus `gorm:"size:20;not null;default:in_stock"`
	Type              InventoryType   `gorm:"size:20;not null;default:physical"`
}

func (ProductInventory) TableName() string { return "product_inventory" }

func (i *ProductInventory) Validate() error {
	if i.ReservedQuantity > i.Quantity {
		return errors.Wrapf(ErrReservedOverStock, "warehouse %s", i.WarehouseCode)
	}
	if i.AvailableQuantity+i.ReservedQuantity > i.Quantity {
		return errors.Wrapf(ErrReservedOverStock, "warehouse %s accounting", i.WarehouseCode)
	}
	return nil
}

func (i *ProductInventory) BeforeSave(*gorm.DB) error { return i.Validate() }
