package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Faculty, &d.Active, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO departments (id, code, name, faculty, active)
		VALUES ($1,$2,$3,$4,TRUE)`,
		d.ID, d.Code, d.Name, d.Faculty)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return scanDepartment(r.pool.QueryRow(ctx,
		`SELECT id, code, name, faculty, active, created_at FROM departments WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Department, error) {
	return scanDepartment(r.pool.QueryRow(ctx,
		`SELECT id, code, name, faculty, active, created_at FROM departments WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, d *Department) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE departments SET code=$2, name=$3, faculty=$4, active=$5 WHERE id = $1`,
		d.ID, d.Code, d.Name, d.Faculty, d.Active)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, faculty, active, created_at FROM departments WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
