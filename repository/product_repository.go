package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-service/errs"
	"ecommerce-service/models"
)

const productColumns = `id, name, description, price, stock, category, image_url, active, version, created_at, updated_at`

// sortColumns whitelists the keys accepted for paginated listing; anything
// else is rejected before reaching the SQL string.
var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"category":  "category",
	"createdAt": "created_at",
}

type ProductRepository struct {
	q Querier
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{q: db}
}

func (r *ProductRepository) WithTx(tx *sql.Tx) *ProductRepository {
	return &ProductRepository{q: tx}
}

func scanProduct(row *sql.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.ImageURL, &p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("Product", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 0
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock, category, image_url, active, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.Active, p.Version, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// Update writes every mutable field, guarded by the optimistic version
// counter. Zero affected rows means the caller's snapshot went stale between
// read and write.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, category = ?,
		    image_url = ?, active = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.Active,
		p.UpdatedAt, p.ID, p.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.Business("concurrent update of product %d detected", p.ID)
	}
	p.Version++
	return nil
}

// SoftDelete flips the active flag; the row stays for order history.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET active = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`, false, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFound("Product", id)
	}
	return nil
}

// DecreaseStock is the inventory ledger primitive: a single conditional
// UPDATE that only succeeds while enough stock remains, so concurrent
// decrements of the same product serialize on the row and can never drive
// stock negative. Returns the number of affected rows; zero means the
// precondition failed.
func (r *ProductRepository) DecreaseStock(ctx context.Context, id int64, quantity int) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?, version = version + 1, updated_at = ?
		WHERE id = ? AND stock >= ?
	`, quantity, time.Now().UTC(), id, quantity)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindActive returns one page of active products. sortBy must be a
// whitelisted key; direction is asc or desc.
func (r *ProductRepository) FindActive(ctx context.Context, page, size int, sortBy, direction string) ([]models.Product, int64, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, 0, errs.Validation("unknown sort key: %s", sortBy)
	}
	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE active = ?`, true).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE active = ? ORDER BY %s %s LIMIT ? OFFSET ?`,
		productColumns, column, dir)
	rows, err := r.q.QueryContext(ctx, query, true, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Search applies the optional criteria filters, ANDed together, and returns
// one page plus the total match count.
func (r *ProductRepository) Search(ctx context.Context, c models.ProductSearchCriteria, page, size int) ([]models.Product, int64, error) {
	where := "1 = 1"
	var args []any

	if c.Name != nil {
		where += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(*c.Name)+"%")
	}
	if c.Category != nil {
		where += " AND category = ?"
		args = append(args, *c.Category)
	}
	if c.MinPrice != nil {
		where += " AND price >= ?"
		args = append(args, *c.MinPrice)
	}
	if c.MaxPrice != nil {
		where += " AND price <= ?"
		args = append(args, *c.MaxPrice)
	}
	if c.Active != nil {
		where += " AND active = ?"
		args = append(args, *c.Active)
	}

	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where +
		` ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, query, append(args, size, page*size)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountByCategory aggregates active products per category.
func (r *ProductRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM products
		WHERE active = ?
		GROUP BY category
		ORDER BY category ASC
	`, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.ImageURL, &p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
