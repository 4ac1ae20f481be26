package labresult

import (
	"context"
	"encoding/json"
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

const cols = `id, student_id, test_type, collected_at, results, status, released_at, notes, created_at, updated_at`

func scanResult(row pgx.Row) (*LabResult, error) {
	var r LabResult
	var raw []byte
	err := row.Scan(&r.ID, &r.StudentID, &r.TestType, &r.CollectedAt, &raw,
		&r.Status, &r.ReleasedAt, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &r.Values); err != nil {
		return nil, fmt.Errorf("decode result values: %w", err)
	}
	return &r, nil
}

func (r *repoPG) Create(ctx context.Context, lr *LabResult) error {
	lr.ID = uuid.New()
	raw, err := json.Marshal(lr.Values)
	if err != nil {
		return fmt.Errorf("encode result values: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO lab_results (id, student_id, test_type, collected_at, results, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		lr.ID, lr.StudentID, lr.TestType, lr.CollectedAt, raw, lr.Status, lr.Notes)
	if err != nil {
		return fmt.Errorf("insert lab result: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return scanResult(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM lab_results WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, lr *LabResult) error {
	raw, err := json.Marshal(lr.Values)
	if err != nil {
		return fmt.Errorf("encode result values: %w", err)
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE lab_results SET test_type=$2, collected_at=$3, results=$4, status=$5,
			released_at=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		lr.ID, lr.TestType, lr.CollectedAt, raw, lr.Status, lr.ReleasedAt, lr.Notes)
	if err != nil {
		return fmt.Errorf("update lab result: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByStudent(ctx context.Context, studentID uuid.UUID, onlyReleased bool, limit, offset int) ([]*LabResult, int, error) {
	where := `student_id = $1`
	if onlyReleased {
		where += ` AND status = 'released'`
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_results WHERE `+where, studentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM lab_results WHERE `+where+` ORDER BY collected_at DESC LIMIT $2 OFFSET $3`,
		studentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListPending(ctx context.Context, limit, offset int) ([]*LabResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_results WHERE status = 'pending'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM lab_results WHERE status = 'pending' ORDER BY collected_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*LabResult, int, error) {
	var out []*LabResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
