package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type progressRepoPG struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) ProgressRepository {
	return &progressRepoPG{pool: pool}
}

func (r *progressRepoPG) GetByStudent(ctx context.Context, studentID uuid.UUID) (*Progress, error) {
	var p Progress
	err := r.pool.QueryRow(ctx, `
		SELECT id, gender, form_current_step, form_total_steps, form_progress_pct, form_status, form_updated_at
		FROM students WHERE id = $1`, studentID,
	).Scan(&p.StudentID, &p.Gender, &p.CurrentStep, &p.TotalSteps, &p.ProgressPercent, &p.Status, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return &p, nil
}

// Advance only updates when the stored step still matches expectedStep. A
// zero-row result means another submission won the race.
func (r *progressRepoPG) Advance(ctx context.Context, studentID uuid.UUID, expectedStep int, upd ProgressUpdate) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE students
		SET form_current_step = $3, form_progress_pct = $4, form_status = $5, form_updated_at = NOW()
		WHERE id = $1 AND form_current_step = $2`,
		studentID, expectedStep, upd.NewStep, upd.ProgressPercent, upd.Status,
	)
	if err != nil {
		return false, fmt.Errorf("advance progress: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

type formRepoPG struct {
	pool *pgxpool.Pool
}

func NewFormRepo(pool *pgxpool.Pool) FormRepository {
	return &formRepoPG{pool: pool}
}

func (r *formRepoPG) GetByStudent(ctx context.Context, studentID uuid.UUID) (*FormRecord, error) {
	rec := FormRecord{StudentID: studentID}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data, updated_at FROM medical_forms WHERE student_id = $1`, studentID,
	).Scan(&raw, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query medical form: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return nil, fmt.Errorf("decode medical form data: %w", err)
	}
	return &rec, nil
}

// UpsertSection merges the new fields into the stored JSONB document. The
// || operator performs a top-level key merge, so fields written by earlier
// sections survive.
func (r *formRepoPG) UpsertSection(ctx context.Context, studentID uuid.UUID, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode section fields: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO medical_forms (student_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (student_id)
		DO UPDATE SET data = medical_forms.data || EXCLUDED.data, updated_at = NOW()`,
		studentID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert medical form section: %w", err)
	}
	return nil
}
