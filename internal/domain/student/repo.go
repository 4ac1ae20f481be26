package student

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("student not found")

// Repository persists student records. Create also seeds the intake form
// columns so a freshly registered student can start the wizard immediately.
type Repository interface {
	Create(ctx context.Context, s *Student, formTotalSteps int) error
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	GetByStudentNumber(ctx context.Context, number string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Student, int, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Student, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Student, int, error)
}
