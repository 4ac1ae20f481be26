package student

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

const cols = `id, student_number, first_name, last_name, email, phone, gender,
	birth_date, department_id, enrollment_year, active, created_at, updated_at`

func scanStudent(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.StudentNumber, &s.FirstName, &s.LastName, &s.Email,
		&s.Phone, &s.Gender, &s.BirthDate, &s.DepartmentID, &s.EnrollmentYear,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Student, formTotalSteps int) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO students (id, student_number, first_name, last_name, email, phone,
			gender, birth_date, department_id, enrollment_year, active,
			form_current_step, form_total_steps, form_progress_pct, form_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE, 0, $11, 0, 'in_progress')`,
		s.ID, s.StudentNumber, s.FirstName, s.LastName, s.Email, s.Phone,
		s.Gender, s.BirthDate, s.DepartmentID, s.EnrollmentYear, formTotalSteps)
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM students WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM students WHERE email = $1`, email))
}

func (r *repoPG) GetByStudentNumber(ctx context.Context, number string) (*Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM students WHERE student_number = $1`, number))
}

func (r *repoPG) Update(ctx context.Context, s *Student) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE students SET first_name=$2, last_name=$3, email=$4, phone=$5,
			birth_date=$6, department_id=$7, enrollment_year=$8, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Email, s.Phone,
		s.BirthDate, s.DepartmentID, s.EnrollmentYear)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE students SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE active`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM students WHERE active ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE active AND department_id = $1`, departmentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM students WHERE active AND department_id = $1
		 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		departmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Student, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM students
		WHERE active AND (first_name ILIKE $1 OR last_name ILIKE $1 OR student_number ILIKE $1)`,
		pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM students
		WHERE active AND (first_name ILIKE $1 OR last_name ILIKE $1 OR student_number ILIKE $1)
		ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Student, int, error) {
	var out []*Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}
