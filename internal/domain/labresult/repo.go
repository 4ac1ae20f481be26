package labresult

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("lab result not found")

type Repository interface {
	Create(ctx context.Context, r *LabResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error)
	Update(ctx context.Context, r *LabResult) error
	ListByStudent(ctx context.Context, studentID uuid.UUID, onlyReleased bool, limit, offset int) ([]*LabResult, int, error)
	ListPending(ctx context.Context, limit, offset int) ([]*LabResult, int, error)
}
