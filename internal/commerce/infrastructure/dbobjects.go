package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"emporium/internal/commerce/domain"
)

// DatabaseObjects is the narrow call interface to the named views, functions
// and stored procedures the scripts install. Their internal logic lives in the
// database; this type only knows how to invoke them per dialect.
type DatabaseObjects struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewDatabaseObjects(db *gorm.DB) *DatabaseObjects {
	return &DatabaseObjects{db: db, logger: zlog.With().Str("component", "db_objects").Logger()}
}

// UserProfileSummaries reads vw_UserProfileSummary.
func (d *DatabaseObjects) UserProfileSummaries(ctx context.Context) ([]domain.UserProfileSummary, error) {
	var out []domain.UserProfileSummary
	if err := d.db.WithContext(ctx).Raw("SELECT * FROM vw_UserProfileSummary").Scan(&out).Error; err != nil {
		return nil, errors.Wrap(err, "query vw_UserProfileSummary")
	}
	return out, nil
}

// ProductInventoryStatuses reads vw_ProductInventoryStatus.
func (d *DatabaseObjects) ProductInventoryStatuses(ctx context.Context) ([]domain.ProductInventoryStatus, error) {
	var out []domain.ProductInventoryStatus
	if err := d.db.WithContext(ctx).Raw("SELECT * FROM vw_ProductInventoryStatus").Scan(&out).Error; err != nil {
		return nil, errors.Wrap(err, "query vw_ProductInventoryStatus")
	}
	return out, nil
}

// OrderDetailsSummaries reads vw_OrderDetailsSummary.
func (d *DatabaseObjects) OrderDetailsSummaries(ctx context.Context) ([]domain.OrderDetailsSummary, error) {
	var out []domain.OrderDetailsSummary
	if err := d.db.WithContext(ctx).Raw("SELECT * FROM vw_OrderDetailsSummary").Scan(&out).Error; err != nil {
		return nil, errors.Wrap(err, "query vw_OrderDetailsSummary")
	}
	return out, nil
}

// CalculateUserLifetimeValue calls fn_CalculateUserLifetimeValue.
func (d *DatabaseObjects) CalculateUserLifetimeValue(ctx context.Context, userID uuid.UUID) (float64, error) {
	var value float64
	err := d.db.WithContext(ctx).
		Raw("SELECT fn_CalculateUserLifetimeValue(?)", userID).
		Scan(&value).Error
	if err != nil {
		return 0, errors.Wrapf(err, "fn_CalculateUserLifetimeValue(%s)", userID)
	}
	return value, nil
}

// ProductAverageRating calls fn_GetProductAverageRating.
func (d *DatabaseObjects) ProductAverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var value float64
	err := d.db.WithContext(ctx).
		Raw("SELECT fn_GetProductAverageRating(?)", productID).
		Scan(&value).Error
	if err != nil {
		return 0, errors.Wrapf(err, "fn_GetProductAverageRating(%s)", productID)
	}
	return value, nil
}

// OrderItemInput is one line of a sp_CreateOrderWithItems call; the procedure
// receives the lines as a JSON document.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

// CreateOrderWithItems invokes sp_CreateOrderWithItems and returns the id of
// the created order, which the procedure yields as its result row.
func (d *DatabaseObjects) CreateOrderWithItems(ctx context.Context, userID uuid.UUID, orderNumber string, items []OrderItemInput) (uuid.UUID, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "encode order items")
	}
	var orderID uuid.UUID
	err = d.db.WithContext(ctx).
		Raw(d.callSQL("sp_CreateOrderWithItems", 3), userID, orderNumber, string(payload)).
		Scan(&orderID).Error
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "sp_CreateOrderWithItems")
	}
	d.logger.Info().Str("order_id", orderID.String()).Int("items", len(items)).Msg("order created via procedure")
	return orderID, nil
}

// UpdateOrderStatus invokes sp_UpdateOrderStatus, which also appends the
// status-history row.
func (d *DatabaseObjects) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, changedBy string) error {
	err := d.db.WithContext(ctx).
		Exec(d.callSQL("sp_UpdateOrderStatus", 3), orderID, string(status), changedBy).Error
	return errors.Wrap(err, "sp_UpdateOrderStatus")
}

// RestockProductInventory invokes sp_RestockProductInventory.
func (d *DatabaseObjects) RestockProductInventory(ctx context.Context, productID uuid.UUID, warehouseCode string, quantity int) error {
	err := d.db.WithContext(ctx).
		Exec(d.callSQL("sp_RestockProductInventory", 3), productID, warehouseCode, quantity).Error
	return errors.Wrap(err, "sp_RestockProductInventory")
}

// SalesReport invokes sp_GetSalesReport for the given window.
func (d *DatabaseObjects) SalesReport(ctx context.Context, from, to time.Time) ([]domain.SalesReportRow, error) {
	var out []domain.SalesReportRow
	err := d.db.WithContext(ctx).
		Raw(d.callSQL("sp_GetSalesReport", 2), from, to).
		Scan(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "sp_GetSalesReport")
	}
	return out, nil
}

// callSQL renders the dialect-specific invocation. MySQL procedures return
// their rows from CALL; on postgres the objects are installed as set-returning
// functions for the same effect.
func (d *DatabaseObjects) callSQL(name string, argc int) string {
	placeholders := "?"
	for i := 1; i < argc; i++ {
		placeholders += ", ?"
	}
	if d.db.Dialector.Name() == "postgres" {
		return "SELECT * FROM " + name + "(" + placeholders + ")"
	}
	return "CALL " + name + "(" + placeholders + ")"
}
