package domain

import (
	"time"

	"github.com/google/uuid"
)

// Read models for the database views. The views themselves are external
// database objects created by the SQL scripts; these structs only describe the
// row shape they return.

type UserProfileSummary struct {
	UserID       uuid.UUID
	Username     string
	Email        string
	FirstName    string
	LastName     string
	City         string
	Country      string
	OrderCount   int64
	SessionCount int64
}

type ProductInventoryStatus struct {
	ProductID      uuid.UUID
	ProductName    string
	SKU            string
	TotalQuantity  int64
	TotalReserved  int64
	WarehouseCount int64
	Status         string
}

type OrderDetailsSummary struct {
	OrderID     uuid.UUID
	OrderNumber string
	Username    string
	ItemCount   int64
	Total       float64
	Status      string
	CreatedAt   time.Time
}

// SalesReportRow is one row of the sp_GetSalesReport result set.
type SalesReportRow struct {
	Day        time.Time
	OrderCount int64
	GrossTotal float64
}
