package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ecommerce-service/errs"
	"ecommerce-service/models"
)

type UserRepository struct {
	q Querier
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("User", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.CreatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.FirstName, u.LastName, u.Role, u.CreatedAt)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}
