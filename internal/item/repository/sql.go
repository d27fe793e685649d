package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/jmoiron/sqlx"
)

const selectItemRows = `
        SELECT s.id, s.product_id, p.name, p.category,
               s.brand, s.color, s.unit, s.quantity, s.price, s.supplier, s.notes, s.date
        FROM subproducts s
        JOIN products p ON p.id = s.product_id`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.ItemRow, error) {
	items := []model.ItemRow{}
	err := r.DB.SelectContext(ctx, &items, selectItemRows+` ORDER BY s.id DESC`)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.ItemRow, error) {
	var row model.ItemRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(selectItemRows+` WHERE s.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SQLRepository) FindSubproduct(ctx context.Context, id int64) (*model.Subproduct, error) {
	var s model.Subproduct
	query := r.DB.Rebind(`
        SELECT id, product_id, brand, color, unit, quantity, price, supplier, notes, date
        FROM subproducts WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) Create(ctx context.Context, s *model.Subproduct) error {
	query := r.DB.Rebind(`
        INSERT INTO subproducts (product_id, brand, color, unit, quantity, price, supplier, notes, date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`)
	return r.DB.QueryRowxContext(ctx, query,
		s.ProductID, s.Brand, s.Color, s.Unit, s.Quantity, s.Price, s.Supplier, s.Notes, s.Date,
	).Scan(&s.ID)
}

func (r *SQLRepository) Update(ctx context.Context, s *model.Subproduct) (bool, error) {
	query := `
        UPDATE subproducts
        SET product_id = :product_id,
            brand = :brand,
            color = :color,
            unit = :unit,
            quantity = :quantity,
            price = :price,
            supplier = :supplier,
            notes = :notes,
            date = :date
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, s)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM subproducts WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
