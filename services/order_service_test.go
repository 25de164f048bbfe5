package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-service/errs"
	"ecommerce-service/models"
)

func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 5)

	order, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 30.00, order.TotalAmount)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 10.00, order.Items[0].UnitPrice)
	assert.Equal(t, 30.00, order.Items[0].Subtotal)

	assert.Equal(t, 2, env.productStock(t, product.ID))

	// Persisted aggregate matches the returned projection.
	stored, err := env.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalAmount, stored.TotalAmount)
	require.Len(t, stored.Items, 1)

	// One created event plus the delayed payment check.
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, models.EventOrderCreated, env.publisher.events[0].Type)
	require.Len(t, env.publisher.delayed, 1)
	assert.Equal(t, models.EventPaymentCheck, env.publisher.delayed[0].Type)
}

func TestCreateOrder_TotalConsistency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	a := env.seedProduct(t, "A", 12.50, 10)
	b := env.seedProduct(t, "B", 3.25, 10)

	order, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items: []models.OrderItemRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	var sum float64
	for _, item := range order.Items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	assert.Equal(t, sum, order.TotalAmount)
	assert.Equal(t, 2*12.50+4*3.25, order.TotalAmount)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 2)

	_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	var business *errs.BusinessError
	require.ErrorAs(t, err, &business)
	assert.Contains(t, business.Msg, "insufficient stock")

	assert.Equal(t, 2, env.productStock(t, product.ID))

	// No order was created and nothing was published.
	page, err := env.orderSvc.GetUserOrders(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalElements)
	assert.Empty(t, env.publisher.events)
}

func TestCreateOrder_RollsBackEarlierDecrements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	a := env.seedProduct(t, "A", 10.00, 5)
	b := env.seedProduct(t, "B", 10.00, 1)

	// The first line reserves stock, then the second line fails; the
	// reservation must be rolled back with the transaction.
	_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items: []models.OrderItemRequest{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: b.ID, Quantity: 2},
		},
	})
	var business *errs.BusinessError
	require.ErrorAs(t, err, &business)

	assert.Equal(t, 5, env.productStock(t, a.ID))
	assert.Equal(t, 1, env.productStock(t, b.ID))
}

func TestCreateOrder_MissingProductRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	a := env.seedProduct(t, "A", 10.00, 5)

	_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items: []models.OrderItemRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: 9999, Quantity: 1},
		},
	})
	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Product", notFound.Resource)

	assert.Equal(t, 5, env.productStock(t, a.ID))
}

func TestCreateOrder_UserNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Widget", 10.00, 5)

	_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          999,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "User", notFound.Resource)

	assert.Equal(t, 5, env.productStock(t, product.ID))
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 5)

	var validation *errs.ValidationError

	_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
	})
	require.ErrorAs(t, err, &validation)

	_, err = env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 0}},
	})
	require.ErrorAs(t, err, &validation)

	assert.Equal(t, 5, env.productStock(t, product.ID))
}

func TestCreateOrder_PriceSnapshotImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 5)

	order, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Reprice the product after the order exists.
	_, err = env.prodSvc.UpdateProduct(ctx, product.ID, models.CreateProductRequest{
		Name:  "Widget",
		Price: 99.00,
		Stock: 3,
	})
	require.NoError(t, err)

	stored, err := env.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.00, stored.TotalAmount)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 10.00, stored.Items[0].UnitPrice)
}

func TestCreateOrder_InvalidatesProductCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 5)

	// Warm the cache.
	dto, err := env.prodSvc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Stock)

	_, err = env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	dto, err = env.prodSvc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dto.Stock)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	var notFound *errs.NotFoundError
	_, err := env.orderSvc.GetOrder(context.Background(), 42)
	require.ErrorAs(t, err, &notFound)
}

func TestGetUserOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 100)

	for i := 0; i < 3; i++ {
		_, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
			UserID:          user.ID,
			ShippingAddress: "1 Main St",
			Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page, err := env.orderSvc.GetUserOrders(ctx, user.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 2)
	assert.False(t, page.IsLastPage)

	page, err = env.orderSvc.GetUserOrders(ctx, user.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
	assert.True(t, page.IsLastPage)

	// Unknown user is NotFound, not an empty page.
	var notFound *errs.NotFoundError
	_, err = env.orderSvc.GetUserOrders(ctx, 999, 0, 10)
	require.ErrorAs(t, err, &notFound)

	// Out-of-range paging is rejected.
	var validation *errs.ValidationError
	_, err = env.orderSvc.GetUserOrders(ctx, user.ID, -1, 10)
	require.ErrorAs(t, err, &validation)
	_, err = env.orderSvc.GetUserOrders(ctx, user.ID, 0, 1000)
	require.ErrorAs(t, err, &validation)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com")
	product := env.seedProduct(t, "Widget", 10.00, 5)

	order, err := env.orderSvc.CreateOrder(ctx, models.CreateOrderRequest{
		UserID:          user.ID,
		ShippingAddress: "1 Main St",
		Items:           []models.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := env.orderSvc.UpdateOrderStatus(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// Transitions are permissive: delivered back to pending is accepted.
	updated, err = env.orderSvc.UpdateOrderStatus(ctx, order.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	var validation *errs.ValidationError
	_, err = env.orderSvc.UpdateOrderStatus(ctx, order.ID, "teleported")
	require.ErrorAs(t, err, &validation)

	var notFound *errs.NotFoundError
	_, err = env.orderSvc.UpdateOrderStatus(ctx, 999, models.StatusShipped)
	require.ErrorAs(t, err, &notFound)

	// Status changes publish events.
	var statusEvents int
	for _, ev := range env.publisher.events {
		if ev.Type == models.EventStatusUpdated {
			statusEvents++
		}
	}
	assert.Equal(t, 2, statusEvents)
}
