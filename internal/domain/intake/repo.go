package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no row exists for the student.
var ErrNotFound = errors.New("not found")

// ProgressRepository persists intake progress. Advance applies a
// compare-and-swap: the update only lands when the stored current step still
// equals expectedStep, which serializes concurrent submissions per student.
type ProgressRepository interface {
	GetByStudent(ctx context.Context, studentID uuid.UUID) (*Progress, error)
	Advance(ctx context.Context, studentID uuid.UUID, expectedStep int, upd ProgressUpdate) (bool, error)
}

// FormRepository persists intake form answers. UpsertSection merges the
// given fields into the student's record without touching fields written by
// earlier sections.
type FormRepository interface {
	GetByStudent(ctx context.Context, studentID uuid.UUID) (*FormRecord, error)
	UpsertSection(ctx context.Context, studentID uuid.UUID, fields map[string]interface{}) error
}
