package application

import (
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emporium/internal/commerce/domain"
)

func TestFakeDataIsDeterministicPerSeed(t *testing.T) {
	a := NewFakeDataSource(42).Users(5)
	b := NewFakeDataSource(42).Users(5)
	require.Len(t, b, 5)
	for i := range a {
		assert.Equal(t, a[i].Username, b[i].Username)
		assert.Equal(t, a[i].Email, b[i].Email)
	}

	c := NewFakeDataSource(7).Users(5)
	different := false
	for i := range a {
		if a[i].Username != c[i].Username {
			different = true
			break
		}
	}
	assert.True(t, different, "different seeds should produce different data")
}

func TestFakeUsersCarryIdentity(t *testing.T) {
	users := NewFakeDataSource(1).Users(20)
	require.Len(t, users, 20)

	usernames := lo.Map(users, func(u *domain.User, _ int) string { return u.Username })
	assert.Len(t, lo.Uniq(usernames), 20, "usernames must be unique")

	for _, u := range users {
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.NotEmpty(t, u.Email)
	}
}

func TestFakeProductsRespectPriceInvariant(t *testing.T) {
	products := NewFakeDataSource(2).Products(50)
	require.Len(t, products, 50)

	skus := lo.Map(products, func(p *domain.Product, _ int) string { return p.SKU })
	assert.Len(t, lo.Uniq(skus), 50)

	for _, p := range products {
		require.NoError(t, p.Validate())
		assert.Positive(t, p.Price)
		if p.SalePrice != nil {
			assert.LessOrEqual(t, *p.SalePrice, p.Price)
		}
	}
}

func TestFakeInventoriesAreConsistent(t *testing.T) {
	src := NewFakeDataSource(3)
	products := src.Products(20)
	inventories := src.Inventories(products)
	require.NotEmpty(t, inventories)

	productIDs := lo.SliceToMap(products, func(p *domain.Product) (uuid.UUID, bool) { return p.ID, true })
	seen := map[string]bool{}
	for _, inv := range inventories {
		require.NoError(t, inv.Validate())
		assert.True(t, productIDs[inv.ProductID], "inventory references a generated product")
		assert.Equal(t, inv.Quantity-inv.ReservedQuantity, inv.AvailableQuantity)

		key := inv.ProductID.String() + "/" + inv.WarehouseCode
		assert.False(t, seen[key], "one row per product and warehouse")
		seen[key] = true
	}
}

func TestFakeOrdersBalance(t *testing.T) {
	src := NewFakeDataSource(4)
	users := src.Users(10)
	products := src.Products(10)
	orders := src.Orders(users, 25)
	require.Len(t, orders, 25)

	for _, o := range orders {
		require.NoError(t, o.Validate())
	}

	items := src.OrderItems(orders, products)
	require.NotEmpty(t, items)
	perOrder := lo.GroupBy(items, func(it *domain.OrderItem) uuid.UUID { return it.OrderID })
	for orderID, group := range perOrder {
		assert.NotEqual(t, uuid.Nil, orderID)
		productsInOrder := lo.Map(group, func(it *domain.OrderItem, _ int) uuid.UUID { return it.ProductID })
		assert.Len(t, lo.Uniq(productsInOrder), len(group), "a product appears at most once per order")
		for _, it := range group {
			require.NoError(t, it.Validate())
		}
	}
}

func TestFakeStatusHistoriesFollowFlow(t *testing.T) {
	src := NewFakeDataSource(5)
	users := src.Users(5)
	orders := src.Orders(users, 10)
	entries := src.StatusHistories(orders, users)
	require.NotEmpty(t, entries)

	index := map[domain.OrderStatus]int{}
	for i, s := range domain.OrderStatusFlow {
		index[s] = i
	}
	for _, e := range entries {
		oldIdx, okOld := index[e.OldStatus]
		newIdx, okNew := index[e.NewStatus]
		require.True(t, okOld)
		require.True(t, okNew)
		assert.Equal(t, oldIdx+1, newIdx, "each entry advances one step")
		assert.NotEmpty(t, e.ChangedBy)
	}
}
