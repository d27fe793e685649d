package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/product"
	"github.com/fekuna/stockmanager/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := r.DB.Rebind(`INSERT INTO products (name, category) VALUES (?, ?) RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query, p.Name, p.Category).Scan(&p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q", product.ErrDuplicateName, p.Name)
		}
		return err
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT id, name, category FROM products WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindByName matches the name exactly (case-sensitive).
func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT id, name, category FROM products WHERE name = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &p, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.DB.SelectContext(ctx, &products, `SELECT id, name, category FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
