package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ecommerce-service/errs"
	"ecommerce-service/models"
)

type OrderRepository struct {
	q Querier
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

func (r *OrderRepository) WithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists the order row and its item rows as one unit. Callers that
// need atomicity with other writes (order assembly does) must run it on a
// repository bound to their transaction.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (user_id, status, shipping_address, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, o.UserID, o.Status, o.ShippingAddress, o.TotalAmount, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		res, err := r.q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?)
		`, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			return err
		}
		item.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, status, shipping_address, total_amount, created_at, updated_at
		FROM orders WHERE id = ?
	`, id).Scan(&o.ID, &o.UserID, &o.Status, &o.ShippingAddress, &o.TotalAmount,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Order", id)
	}
	if err != nil {
		return nil, err
	}

	if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByUserID returns one page of the user's orders, newest first, items
// included, plus the user's total order count.
func (r *OrderRepository) FindByUserID(ctx context.Context, userID int64, page, size int) ([]models.Order, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, status, shipping_address, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.ShippingAddress,
			&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// UpdateStatus overwrites the status; the enumeration value is validated by
// the service, transitions are not restricted.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFound("Order", id)
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
