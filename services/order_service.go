package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"ecommerce-service/cache"
	"ecommerce-service/errs"
	"ecommerce-service/models"
	"ecommerce-service/repository"
)

// EventPublisher is the broker-facing side of the order flow. Publishing is
// best effort and happens strictly after commit; a nil publisher disables it.
type EventPublisher interface {
	PublishOrderEvent(ev models.OrderEvent, priority int) error
	PublishDelayedEvent(ev models.OrderEvent, delay time.Duration) error
}

// paymentCheckDelay is how long an order may stay pending before the
// delayed payment check fires.
const paymentCheckDelay = 15 * time.Minute

type OrderService struct {
	db       *sql.DB
	users    *repository.UserRepository
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	cache    cache.ProductCache
	events   EventPublisher
}

func NewOrderService(db *sql.DB, users *repository.UserRepository,
	products *repository.ProductRepository, orders *repository.OrderRepository,
	productCache cache.ProductCache, events EventPublisher) *OrderService {
	return &OrderService{
		db:       db,
		users:    users,
		products: products,
		orders:   orders,
		cache:    productCache,
		events:   events,
	}
}

// CreateOrder assembles and persists an order as one transaction: resolve
// the user, then per requested item resolve the product, reserve stock with
// the conditional decrement, accumulate the total and snapshot the unit
// price. Any failure rolls back every decrement already applied in this
// call; either the whole order commits or nothing does.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.OrderDTO, error) {
	if len(req.Items) == 0 {
		return models.OrderDTO{}, errs.Validation("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return models.OrderDTO{}, errs.Validation("quantity must be at least 1 for product %d", item.ProductID)
		}
	}

	log.Printf("Creating order for user %d with %d items", req.UserID, len(req.Items))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.OrderDTO{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	users := s.users.WithTx(tx)
	products := s.products.WithTx(tx)
	orders := s.orders.WithTx(tx)

	user, err := users.FindByID(ctx, req.UserID)
	if err != nil {
		return models.OrderDTO{}, err
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product, err := products.FindByID(ctx, itemReq.ProductID)
		if err != nil {
			return models.OrderDTO{}, err
		}

		affected, err := products.DecreaseStock(ctx, product.ID, itemReq.Quantity)
		if err != nil {
			return models.OrderDTO{}, err
		}
		if affected == 0 {
			return models.OrderDTO{}, errs.Business("insufficient stock for product: %s", product.Name)
		}

		totalAmount += product.Price * float64(itemReq.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    itemReq.Quantity,
			UnitPrice:   product.Price,
		})
	}

	order := &models.Order{
		UserID:          user.ID,
		Status:          models.StatusPending,
		ShippingAddress: req.ShippingAddress,
		TotalAmount:     totalAmount,
		Items:           items,
	}
	if err := orders.Create(ctx, order); err != nil {
		return models.OrderDTO{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.OrderDTO{}, err
	}
	committed = true

	// Stock changed; cached product projections are stale now.
	for _, item := range order.Items {
		s.cache.Invalidate(item.ProductID)
	}

	s.publishOrderCreated(order)

	return models.ToOrderDTO(order), nil
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}

	ev := models.OrderEvent{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Type:     models.EventOrderCreated,
		Status:   order.Status,
		Total:    order.TotalAmount,
		Occurred: time.Now().UTC(),
	}

	priority := 5
	if order.TotalAmount > 1000 { // large orders jump the queue
		priority = 9
	}
	if err := s.events.PublishOrderEvent(ev, priority); err != nil {
		log.Printf("Failed to publish order created event: %v", err)
	}

	check := ev
	check.Type = models.EventPaymentCheck
	if err := s.events.PublishDelayedEvent(check, paymentCheckDelay); err != nil {
		log.Printf("Failed to publish delayed payment check event: %v", err)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (models.OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.OrderDTO{}, err
	}
	return models.ToOrderDTO(order), nil
}

// GetUserOrders resolves the user first: an unknown user id is NotFound
// rather than an empty page.
func (s *OrderService) GetUserOrders(ctx context.Context, userID int64, page, size int) (models.PagedResponse[models.OrderDTO], error) {
	if err := validatePaging(page, size, maxPageSize); err != nil {
		return models.PagedResponse[models.OrderDTO]{}, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return models.PagedResponse[models.OrderDTO]{}, err
	}

	orders, total, err := s.orders.FindByUserID(ctx, userID, page, size)
	if err != nil {
		return models.PagedResponse[models.OrderDTO]{}, err
	}

	dtos := make([]models.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, models.ToOrderDTO(&orders[i]))
	}
	return models.NewPagedResponse(dtos, page, size, total), nil
}

// UpdateOrderStatus overwrites the status with any member of the status
// enumeration. Transitions are not restricted; the status value itself is.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (models.OrderDTO, error) {
	if !models.ValidStatus(status) {
		return models.OrderDTO{}, errs.Validation("invalid order status: %s", status)
	}

	log.Printf("Updating order %d status to %s", id, status)

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return models.OrderDTO{}, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.OrderDTO{}, err
	}

	if s.events != nil {
		priority := 5
		if status == models.StatusCancelled { // cancellations jump the queue
			priority = 8
		}
		ev := models.OrderEvent{
			OrderID:  order.ID,
			UserID:   order.UserID,
			Type:     models.EventStatusUpdated,
			Status:   order.Status,
			Total:    order.TotalAmount,
			Occurred: time.Now().UTC(),
		}
		if err := s.events.PublishOrderEvent(ev, priority); err != nil {
			log.Printf("Failed to publish order status event: %v", err)
		}
	}

	return models.ToOrderDTO(order), nil
}
