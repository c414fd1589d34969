package domain

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleModerator  UserRole = "moderator"
	UserRoleSuperAdmin UserRole = "superadmin"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusExpired   SessionStatus = "expired"
	SessionStatusRevoked   SessionStatus = "revoked"
	SessionStatusSuspended SessionStatus = "suspended"
)

type SessionType string

const (
	SessionTypeWeb     SessionType = "web"
	SessionTypeMobile  SessionType = "mobile"
	SessionTypeAPI     SessionType = "api"
	SessionTypeDesktop SessionType = "desktop"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
)

type ProductType string

const (
	ProductTypePhysical     ProductType = "physical"
	ProductTypeDigital      ProductType = "digital"
	ProductTypeService      ProductType = "service"
	ProductTypeSubscription ProductType = "subscription"
)

type InventoryStatus string

const (
	InventoryStatusInStock      InventoryStatus = "in_stock"
	InventoryStatusLowStock     InventoryStatus = "low_stock"
	InventoryStatusOutOfStock   InventoryStatus = "out_of_stock"
	InventoryStatusDiscontinued InventoryStatus = "discontinued"
)

type InventoryType string

const (
	InventoryTypePhysical   InventoryType = "physical"
	InventoryTypeDigital    InventoryType = "digital"
	InventoryTypeConsumable InventoryType = "consumable"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusHidden   ReviewStatus = "hidden"
)

type ReviewType string

const (
	ReviewTypeProduct    ReviewType = "product"
	ReviewTypeService    ReviewType = "service"
	ReviewTypeExperience ReviewType = "experience"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// OrderStatusFlow is the forward progression used when fabricating status
// history: each transition moves one step further along this sequence.
var OrderStatusFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)
