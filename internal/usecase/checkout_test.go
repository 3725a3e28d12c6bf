package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/quangdo/shopcart-api/internal/entity"
)

type checkoutFixture struct {
	carts    *fakeCartRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	idem     *fakeIdemStore
	events   *fakePublisher
	uc       *Checkout
}

func newCheckoutFixture(products ...*domain.Product) *checkoutFixture {
	f := &checkoutFixture{
		carts:    newFakeCartRepo(),
		products: newFakeProductRepo(products...),
		orders:   newFakeOrderRepo(),
		idem:     newFakeIdemStore(),
		events:   &fakePublisher{},
	}
	pricing := domain.Pricing{
		Currency:                   "USD",
		FreeShippingThresholdCents: 10000,
		FlatShippingCents:          999,
		TaxRate:                    decimal.RequireFromString("0.08"),
	}
	f.uc = NewCheckout(f.carts, f.products, f.orders, f.idem, f.events, pricing)
	return f
}

func (f *checkoutFixture) seedCart(t *testing.T, userID string, lines ...domain.CartItem) {
	t.Helper()
	c := domain.NewCart(userID)
	for _, line := range lines {
		p, err := f.products.GetByID(context.Background(), line.ProductID)
		require.NoError(t, err)
		require.NoError(t, c.AddItem(p, line.Quantity))
	}
	require.NoError(t, f.carts.Save(context.Background(), c))
}

func placeInput(userID string) PlaceOrderInput {
	return PlaceOrderInput{
		UserID: userID,
		Email:  userID + "@example.com",
		ShippingAddress: domain.ShippingAddress{
			FullName: "Test Buyer", Line1: "1 Main St", City: "Springfield",
			PostalCode: "12345", Country: "US",
		},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newCheckoutFixture(
		product("a", 10000, 5, true),
		product("b", 5000, 3, true),
	)
	f.seedCart(t, "u1",
		domain.CartItem{ProductID: "a", Quantity: 2},
		domain.CartItem{ProductID: "b", Quantity: 1},
	)

	o, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))
	require.NoError(t, err)

	// frozen money fields: subtotal 25000, free shipping, 8% tax
	assert.Equal(t, int64(25000), o.SubtotalCents)
	assert.Zero(t, o.ShippingCents)
	assert.Equal(t, int64(2000), o.TaxCents)
	assert.Equal(t, int64(27000), o.TotalCents)
	assert.Equal(t, domain.OrderPending, o.OrderStatus)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), o.OrderNumber)

	// denormalized items copied from the cart snapshot
	require.Len(t, o.Items, 2)
	assert.Equal(t, "product a", o.Items[0].Name)
	assert.Equal(t, int64(10000), o.Items[0].UnitPriceCents)

	// stock decremented per line
	assert.Equal(t, 3, f.products.stock("a"))
	assert.Equal(t, 2, f.products.stock("b"))

	// cart cleared
	c, err := f.carts.GetByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	// best-effort event published
	require.Len(t, f.events.created, 1)
	assert.Equal(t, o.OrderNumber, f.events.created[0].OrderNumber)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 5, true))

	// no cart document at all
	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	// cart exists but was cleared
	require.NoError(t, f.carts.Save(context.Background(), domain.NewCart("u2")))
	_, err = f.uc.PlaceOrder(context.Background(), placeInput("u2"))
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	assert.Zero(t, f.orders.count())
}

func TestPlaceOrderAllOrNothingValidation(t *testing.T) {
	// Product A (price 100, stock 5) and Product B (price 50, stock 0 but
	// still active): checkout must fail listing B and leave A's stock alone.
	f := newCheckoutFixture(
		product("a", 100, 5, true),
		product("b", 50, 2, true),
	)
	f.seedCart(t, "u1",
		domain.CartItem{ProductID: "a", Quantity: 1},
		domain.CartItem{ProductID: "b", Quantity: 2},
	)
	// stock for B drains between add-to-cart and checkout
	require.NoError(t, f.products.SetStock(context.Background(), "b", 0))

	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	require.Len(t, uie.Lines, 1)
	assert.Equal(t, "b", uie.Lines[0].ProductID)
	assert.Equal(t, 0, uie.Lines[0].Available)
	assert.Equal(t, 2, uie.Lines[0].Requested)
	assert.Equal(t, domain.ReasonOutOfStock, uie.Lines[0].Reason, "active product with zero stock is out of stock, not inactive")

	// no order created, no stock decremented for any line
	assert.Zero(t, f.orders.count())
	assert.Equal(t, 5, f.products.stock("a"))
	assert.Empty(t, f.events.created)

	// cart still intact for a retry
	c, err := f.carts.GetByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestPlaceOrderCollectsAllViolations(t *testing.T) {
	f := newCheckoutFixture(
		product("a", 100, 5, true),
		product("b", 50, 5, true),
		product("c", 70, 5, true),
	)
	f.seedCart(t, "u1",
		domain.CartItem{ProductID: "a", Quantity: 4},
		domain.CartItem{ProductID: "b", Quantity: 2},
		domain.CartItem{ProductID: "c", Quantity: 1},
	)
	require.NoError(t, f.products.SetStock(context.Background(), "a", 3))
	bp, _ := f.products.GetByID(context.Background(), "b")
	bp.IsActive = false
	require.NoError(t, f.products.Update(context.Background(), bp))

	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	require.Len(t, uie.Lines, 2, "both offending lines reported, not just the first")

	byID := map[string]domain.UnavailableLine{}
	for _, l := range uie.Lines {
		byID[l.ProductID] = l
	}
	assert.Equal(t, domain.ReasonInsufficientStock, byID["a"].Reason)
	assert.Equal(t, 3, byID["a"].Available)
	assert.Equal(t, domain.ReasonInactive, byID["b"].Reason)
}

func TestPlaceOrderReportsDeletedProduct(t *testing.T) {
	f := newCheckoutFixture(product("a", 100, 5, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 1})

	// product removed from the catalog after it was added to the cart
	delete(f.products.products, "a")

	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	require.Len(t, uie.Lines, 1)
	assert.Equal(t, domain.ReasonNotFound, uie.Lines[0].Reason)
}

func TestPlaceOrderShippingThreshold(t *testing.T) {
	f := newCheckoutFixture(product("a", 100, 1000, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 10}) // 1000 cents

	o, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))
	require.NoError(t, err)

	assert.Equal(t, int64(999), o.ShippingCents)
	assert.Equal(t, int64(1000+999+80), o.TotalCents)
}

func TestPlaceOrderCompensatesOnLostDecrementRace(t *testing.T) {
	f := newCheckoutFixture(
		product("a", 1000, 5, true),
		product("b", 2000, 1, true),
	)
	f.seedCart(t, "u1",
		domain.CartItem{ProductID: "a", Quantity: 2},
		domain.CartItem{ProductID: "b", Quantity: 1},
	)

	// a concurrent checkout grabs B's last unit after validation passed
	f.products.decrementHook = func(id string) {
		if id == "b" {
			f.products.decrementHook = nil
			_ = f.products.SetStock(context.Background(), "b", 0)
		}
	}

	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	require.Len(t, uie.Lines, 1)
	assert.Equal(t, "b", uie.Lines[0].ProductID)

	// A's decrement was rolled back and the order deleted
	assert.Equal(t, 5, f.products.stock("a"))
	assert.Zero(t, f.orders.count())
	assert.Empty(t, f.events.created)
}

func TestPlaceOrderIdempotencyReplay(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 10, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 2})

	in := placeInput("u1")
	in.IdempotencyKey = "key-1"

	first, err := f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	// replay with the same key returns the original order, no new writes
	second, err := f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 8, f.products.stock("a"))
}

func TestPlaceOrderRetryAfterFailedAttempt(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 5, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 2})
	require.NoError(t, f.products.SetStock(context.Background(), "a", 0))

	in := placeInput("u1")
	in.IdempotencyKey = "key-1"

	_, err := f.uc.PlaceOrder(context.Background(), in)
	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	assert.Equal(t, 0, f.orders.count())

	// restock: the retry with the same key must get a fresh attempt, not
	// ErrDuplicate for the remainder of the lock TTL
	require.NoError(t, f.products.SetStock(context.Background(), "a", 5))

	o, err := f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 3, f.products.stock("a"))

	// the key now replays to the order the successful attempt created
	again, err := f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, o.ID, again.ID)
	assert.Equal(t, 1, f.orders.count())
}

func TestPlaceOrderRetryAfterLostDecrementRace(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 1, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 1})

	in := placeInput("u1")
	in.IdempotencyKey = "key-1"

	f.products.decrementHook = func(id string) {
		f.products.decrementHook = nil
		_ = f.products.SetStock(context.Background(), "a", 0)
	}

	_, err := f.uc.PlaceOrder(context.Background(), in)
	var uie *domain.UnavailableItemsError
	require.ErrorAs(t, err, &uie)
	assert.Equal(t, domain.ReasonOutOfStock, uie.Lines[0].Reason)

	require.NoError(t, f.products.SetStock(context.Background(), "a", 1))

	_, err = f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err, "a compensated attempt must not burn the idempotency key")
	assert.Equal(t, 1, f.orders.count())
}

func TestPlaceOrderRetryAfterEmptyCart(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 5, true))

	in := placeInput("u1")
	in.IdempotencyKey = "key-1"

	_, err := f.uc.PlaceOrder(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 1})
	_, err = f.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.orders.count())
}

func TestPlaceOrderDuplicateInFlight(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 10, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 2})

	// lock held, no remembered order yet: concurrent duplicate
	ok, err := f.idem.TryLock(context.Background(), "u1", "key-1")
	require.NoError(t, err)
	require.True(t, ok)

	in := placeInput("u1")
	in.IdempotencyKey = "key-1"
	_, err = f.uc.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 10, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 1})
	f.events.err = assert.AnError

	o, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	require.NoError(t, err, "notification failure must never fail checkout")
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 9, f.products.stock("a"))
	_ = o
}

func TestPlaceOrderSurvivesCartClearFailure(t *testing.T) {
	f := newCheckoutFixture(product("a", 1000, 10, true))
	f.seedCart(t, "u1", domain.CartItem{ProductID: "a", Quantity: 1})
	f.carts.clearErr = assert.AnError

	_, err := f.uc.PlaceOrder(context.Background(), placeInput("u1"))

	require.NoError(t, err, "cart clear failure logs a warning, the order stands")
	assert.Equal(t, 1, f.orders.count())
}

func TestNewOrderNumberShape(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	n1 := NewOrderNumber(now)
	n2 := NewOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20250314-[0-9A-F]{8}$`), n1)
	assert.NotEqual(t, n1, n2)
}
