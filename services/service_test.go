package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecommerce-service/cache"
	"ecommerce-service/database/databasetest"
	"ecommerce-service/models"
	"ecommerce-service/repository"
)

// fakePublisher records published events instead of talking to a broker.
type fakePublisher struct {
	events  []models.OrderEvent
	delayed []models.OrderEvent
}

func (f *fakePublisher) PublishOrderEvent(ev models.OrderEvent, priority int) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) PublishDelayedEvent(ev models.OrderEvent, delay time.Duration) error {
	f.delayed = append(f.delayed, ev)
	return nil
}

type testEnv struct {
	db        *sql.DB
	users     *repository.UserRepository
	products  *repository.ProductRepository
	orders    *repository.OrderRepository
	cache     cache.ProductCache
	publisher *fakePublisher
	orderSvc  *OrderService
	prodSvc   *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := databasetest.New(t)
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)

	productCache, err := cache.NewProductCache(64)
	require.NoError(t, err)

	publisher := &fakePublisher{}
	return &testEnv{
		db:        db,
		users:     users,
		products:  products,
		orders:    orders,
		cache:     productCache,
		publisher: publisher,
		orderSvc:  NewOrderService(db, users, products, orders, productCache, publisher),
		prodSvc:   NewProductService(products, productCache),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: stock, Category: "test", Active: true}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) productStock(t *testing.T, id int64) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
