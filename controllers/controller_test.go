package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"ecommerce-service/cache"
	"ecommerce-service/database/databasetest"
	"ecommerce-service/models"
	"ecommerce-service/repository"
	"ecommerce-service/services"
)

type testServer struct {
	router   *gin.Engine
	db       *sql.DB
	users    *repository.UserRepository
	products *repository.ProductRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.New(t)
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)

	productCache, err := cache.NewProductCache(64)
	require.NoError(t, err)

	orderSvc := services.NewOrderService(db, users, products, orders, productCache, nil)
	productSvc := services.NewProductService(products, productCache)

	router := gin.New()
	api := router.Group("/api/v1")
	NewOrderController(orderSvc).RegisterRoutes(api)
	NewProductController(productSvc).RegisterRoutes(api)

	return &testServer{router: router, db: db, users: users, products: products}
}

func (s *testServer) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *testServer) seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: stock, Category: "test", Active: true}
	require.NoError(t, s.products.Create(context.Background(), p))
	return p
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
