package application

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"emporium/internal/commerce/domain"
)

// DataSource fabricates the records the seeder persists. It is a seam: the
// seeder only cares that parents come with identities children can reference.
type DataSource interface {
	Users(n int) []*domain.User
	Products(n int) []*domain.Product
	Profiles(users []*domain.User) []*domain.UserProfile
	Sessions(users []*domain.User) []*domain.UserSession
	Inventories(products []*domain.Product) []*domain.ProductInventory
	Reviews(products []*domain.Product, users []*domain.User) []*domain.ProductReview
	Orders(users []*domain.User, n int) []*domain.Order
	OrderItems(orders []*domain.Order, products []*domain.Product) []*domain.OrderItem
	StatusHistories(orders []*domain.Order, users []*domain.User) []*domain.OrderStatusHistory
}

// profileProbability is the chance a generated user gets a profile.
const profileProbability = 0.8

var (
	userStatuses    = []domain.UserStatus{domain.UserStatusActive, domain.UserStatusInactive, domain.UserStatusSuspended, domain.UserStatusPending}
	userRoles       = []domain.UserRole{domain.UserRoleUser, domain.UserRoleAdmin, domain.UserRoleModerator, domain.UserRoleSuperAdmin}
	sessionStatuses = []domain.SessionStatus{domain.SessionStatusActive, domain.SessionStatusExpired, domain.SessionStatusRevoked, domain.SessionStatusSuspended}
	sessionTypes    = []domain.SessionType{domain.SessionTypeWeb, domain.SessionTypeMobile, domain.SessionTypeAPI, domain.SessionTypeDesktop}
	productStatuses = []domain.ProductStatus{domain.ProductStatusActive, domain.ProductStatusInactive, domain.ProductStatusDiscontinued, domain.ProductStatusOutOfStock}
	productTypes    = []domain.ProductType{domain.ProductTypePhysical, domain.ProductTypeDigital, domain.ProductTypeService, domain.ProductTypeSubscription}
	inventoryTypes  = []domain.InventoryType{domain.InventoryTypePhysical, domain.InventoryTypeDigital, domain.InventoryTypeConsumable}
	reviewStatuses  = []domain.ReviewStatus{domain.ReviewStatusPending, domain.ReviewStatusApproved, domain.ReviewStatusRejected, domain.ReviewStatusHidden}
	reviewTypes     = []domain.ReviewType{domain.ReviewTypeProduct, domain.ReviewTypeService, domain.ReviewTypeExperience}
	paymentMethods  = []domain.PaymentMethod{domain.PaymentMethodCreditCard, domain.PaymentMethodDebitCard, domain.PaymentMethodPayPal, domain.PaymentMethodBankTransfer, domain.PaymentMethodCash}

	warehouseCodes = []string{"WH-001", "WH-002", "WH-003", "WH-004", "WH-005", "WH-006", "WH-007", "WH-008", "WH-009", "WH-010"}
)

// FakeDataSource is the default DataSource. All randomness derives from the
// seed, so a run is reproducible.
type FakeDataSource struct {
	f   *gofakeit.Faker
	rnd *rand.Rand
}

func NewFakeDataSource(seed uint64) *FakeDataSource {
	return &FakeDataSource{
		f:   gofakeit.New(seed),
		rnd: rand.New(rand.NewSource(int64(seed))),
	}
}

func pick[T any](rnd *rand.Rand, choices []T) T {
	return choices[rnd.Intn(len(choices))]
}

func (g *FakeDataSource) Users(n int) []*domain.User {
	out := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		first, last := g.f.FirstName(), g.f.LastName()
		username := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), i+1)
		u := &domain.User{
			Username:    username,
			Email:       username + "@example.com",
			Metadata:    fmt.Sprintf(`{"theme":%q,"notifications":%t}`, pick(g.rnd, []string{"dark", "light"}), g.f.Bool()),
			Tags:        g.words(1, 4),
			CreditScore: float64(g.f.Number(300, 850)),
			Balance:     g.f.Price(0, 10000),
			Status:      pick(g.rnd, userStatuses),
			Role:        pick(g.rnd, userRoles),
		}
		u.ID = uuid.New()
		if g.rnd.Float64() < 0.7 {
			bio := g.f.Sentence(12)
			u.Bio = &bio
		}
		if g.rnd.Float64() < 0.2 {
			u.ProfilePicture = g.f.ImageJpeg(32, 32)
		}
		if g.rnd.Float64() < 0.9 {
			lastLogin := time.Now().UTC().Add(-time.Duration(g.f.Number(1, 720)) * time.Hour)
			u.LastLoginAt = &lastLogin
		}
		birth := time.Date(1960+g.rnd.Intn(45), time.Month(1+g.rnd.Intn(12)), 1+g.rnd.Intn(28), 0, 0, 0, 0, time.UTC)
		u.BirthDate = &birth
		out = append(out, u)
	}
	return out
}

func (g *FakeDataSource) Products(n int) []*domain.Product {
	out := make([]*domain.Product, 0, n)
	for i := 0; i < n; i++ {
		price := g.f.Price(10, 1010)
		p := &domain.Product{
			Name:           g.f.ProductName(),
			Description:    g.f.ProductDescription(),
			SKU:            fmt.Sprintf("SKU-%06d-%d", g.f.Number(100000, 999999), i+1),
			Barcode:        fmt.Sprintf("BC%09d", g.f.Number(100000000, 999999999)),
			Price:          price,
			Specifications: fmt.Sprintf(`{"color":%q,"material":%q}`, g.f.Color(), g.f.Word()),
			Tags:           g.words(2, 6),
			Categories:     g.categories(1, 3),
			Images:         g.imageURLs(1, 5),
			Dimensions: domain.ProductDimensions{
				Length: g.f.Float64Range(1, 120),
				Width:  g.f.Float64Range(1, 80),
				Height: g.f.Float64Range(1, 60),
				Unit:   "cm",
			},
			Weight: domain.ProductWeight{Value: g.f.Float64Range(0.1, 25), Unit: "kg"},
			Status: pick(g.rnd, productStatuses),
			Type:   pick(g.rnd, productTypes),
		}
		p.ID = uuid.New()
		if g.rnd.Float64() < 0.3 {
			sale := price * 0.8
			p.SalePrice = &sale
		}
		cost := price * g.f.Float64Range(0.3, 0.9)
		p.Cost = &cost
		out = append(out, p)
	}
	return out
}

func (g *FakeDataSource) Profiles(users []*domain.User) []*domain.UserProfile {
	var out []*domain.UserProfile
	for _, u := range users {
		if g.rnd.Float64() >= profileProbability {
			continue
		}
		pr := &domain.UserProfile{
			UserID:      u.ID,
			FirstName:   g.f.FirstName(),
			LastName:    g.f.LastName(),
			PhoneNumber: g.f.Phone(),
			HomeAddress: g.address(),
			WorkAddress: g.address(),
			Preferences: fmt.Sprintf(`{"emailNotifications":%t}`, g.f.Bool()),
			Skills:      g.words(2, 6),
			Languages:   g.languages(1, 3),
		}
		pr.ID = uuid.New()
		out = append(out, pr)
	}
	return out
}

func (g *FakeDataSource) Sessions(users []*domain.User) []*domain.UserSession {
	var out []*domain.UserSession
	for _, u := range users {
		for i, n := 0, 1+g.rnd.Intn(5); i < n; i++ {
			exp := time.Now().UTC().Add(time.Duration(g.f.Number(1, 168)) * time.Hour)
			s := &domain.UserSession{
				UserID:       u.ID,
				SessionToken: uuid.NewString(),
				IPAddress:    g.f.IPv4Address(),
				UserAgent:    g.f.UserAgent(),
				ExpiresAt:    &exp,
				Permissions:  g.words(1, 3),
				Status:       pick(g.rnd, sessionStatuses),
				Type:         pick(g.rnd, sessionTypes),
			}
			s.ID = uuid.New()
			out = append(out, s)
		}
	}
	return out
}

func (g *FakeDataSource) Inventories(products []*domain.Product) []*domain.ProductInventory {
	var out []*domain.ProductInventory
	for _, p := range products {
		n := 1 + g.rnd.Intn(3)
		for _, wi := range g.rnd.Perm(len(warehouseCodes))[:n] {
			qty := g.f.Number(0, 500)
			reserved := 0
			if qty > 0 {
				reserved = g.rnd.Intn(qty + 1)
			}
			cost, unit := g.f.Price(5, 500), g.f.Price(10, 1000)
			inv := &domain.ProductInventory{
				ProductID:         p.ID,
				WarehouseCode:     warehouseCodes[wi],
				Location:          fmt.Sprintf("Aisle %d, Bay %d", g.f.Number(1, 40), g.f.Number(1, 12)),
				Quantity:          qty,
				ReservedQuantity:  reserved,
				AvailableQuantity: qty - reserved,
				UnitCost:          &cost,
				UnitPrice:         &unit,
				Status:            inventoryStatus(qty),
				Type:              pick(g.rnd, inventoryTypes),
			}
			inv.ID = uuid.New()
			out = append(out, inv)
		}
	}
	return out
}

func inventoryStatus(qty int) domain.InventoryStatus {
	switch {
	case qty == 0:
		return domain.InventoryStatusOutOfStock
	case qty < 20:
		return domain.InventoryStatusLowStock
	default:
		return domain.InventoryStatusInStock
	}
}

func (g *FakeDataSource) Reviews(products []*domain.Product, users []*domain.User) []*domain.ProductReview {
	var out []*domain.ProductReview
	for _, p := range products {
		for i, n := 0, g.rnd.Intn(11); i < n; i++ {
			r := &domain.ProductReview{
				ProductID: p.ID,
				UserID:    pick(g.rnd, users).ID,
				Title:     strings.TrimSuffix(g.f.Sentence(4), "."),
				Comment:   g.f.Sentence(15),
				Rating:    g.f.Number(1, 5),
				Status:    pick(g.rnd, reviewStatuses),
				Type:      pick(g.rnd, reviewTypes),
			}
			r.ID = uuid.New()
			out = append(out, r)
		}
	}
	return out
}

func (g *FakeDataSource) Orders(users []*domain.User, n int) []*domain.Order {
	out := make([]*domain.Order, 0, n)
	for i := 0; i < n; i++ {
		o := &domain.Order{
			UserID:          pick(g.rnd, users).ID,
			OrderNumber:     fmt.Sprintf("ORD-%08d-%d", g.f.Number(10000000, 99999999), i+1),
			SubTotal:        g.f.Price(20, 2000),
			ShippingCost:    g.f.Price(5, 25),
			OrderData:       fmt.Sprintf(`{"channel":%q}`, pick(g.rnd, []string{"web", "mobile", "phone"})),
			Status:          pick(g.rnd, domain.OrderStatusFlow),
			PaymentMethod:   pick(g.rnd, paymentMethods),
			ShippingAddress: g.address(),
			BillingAddress:  g.address(),
		}
		o.ID = uuid.New()
		o.TaxAmount = o.SubTotal * 0.08
		o.Recalculate()
		out = append(out, o)
	}
	return out
}

// OrderItems picks 1-5 distinct products per order; the unit price is the
// product's sale price when present, the list price otherwise.
func (g *FakeDataSource) OrderItems(orders []*domain.Order, products []*domain.Product) []*domain.OrderItem {
	var out []*domain.OrderItem
	for _, o := range orders {
		n := 1 + g.rnd.Intn(5)
		if n > len(products) {
			n = len(products)
		}
		for _, pi := range g.rnd.Perm(len(products))[:n] {
			p := products[pi]
			it := &domain.OrderItem{
				OrderID:     o.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    1 + g.rnd.Intn(5),
				UnitPrice:   p.EffectivePrice(),
				Attributes:  g.words(0, 3),
			}
			it.ID = uuid.New()
			it.Recalculate()
			out = append(out, it)
		}
	}
	return out
}

func (g *FakeDataSource) StatusHistories(orders []*domain.Order, users []*domain.User) []*domain.OrderStatusHistory {
	var out []*domain.OrderStatusHistory
	flow := domain.OrderStatusFlow
	for _, o := range orders {
		n := 1 + g.rnd.Intn(4)
		if n > len(flow)-1 {
			n = len(flow) - 1
		}
		at := o.CreatedAt
		if at.IsZero() {
			at = time.Now().UTC().Add(-time.Duration(n+1) * time.Hour)
		}
		for i := 0; i < n; i++ {
			actor := pick(g.rnd, users)
			at = at.Add(time.Duration(1+g.rnd.Intn(48)) * time.Hour)
			h := &domain.OrderStatusHistory{
				OrderID:     o.ID,
				ChangedByID: actor.ID,
				ChangedBy:   actor.Username,
				OldStatus:   flow[i],
				NewStatus:   flow[i+1],
				ChangedAt:   at,
				Reason:      g.f.Sentence(5),
			}
			h.ID = uuid.New()
			out = append(out, h)
		}
	}
	return out
}

func (g *FakeDataSource) address() domain.Address {
	return domain.Address{
		Street:     g.f.Street(),
		City:       g.f.City(),
		State:      g.f.StateAbr(),
		PostalCode: g.f.Zip(),
		Country:    g.f.Country(),
		Latitude:   g.f.Latitude(),
		Longitude:  g.f.Longitude(),
	}
}

func (g *FakeDataSource) words(min, max int) []string {
	n := min
	if max > min {
		n += g.rnd.Intn(max - min + 1)
	}
	return lo.Times(n, func(int) string { return g.f.Word() })
}

func (g *FakeDataSource) categories(min, max int) []string {
	n := min + g.rnd.Intn(max-min+1)
	return lo.Times(n, func(int) string { return g.f.ProductCategory() })
}

func (g *FakeDataSource) languages(min, max int) []string {
	n := min + g.rnd.Intn(max-min+1)
	return lo.Times(n, func(int) string { return g.f.Language() })
}

func (g *FakeDataSource) imageURLs(min, max int) []string {
	n := min + g.rnd.Intn(max-min+1)
	return lo.Times(n, func(i int) string {
		return fmt.Sprintf("https://img.example.com/%s/%d.jpg", g.f.Word(), i+1)
	})
}
