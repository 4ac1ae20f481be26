package labresult

import (
	"context"
	"fmt"
	"time"

	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StudentDirectory resolves student contact details for release notices.
type StudentDirectory interface {
	ContactFor(ctx context.Context, studentID uuid.UUID) (name, email string, err error)
}

type Service struct {
	repo     Repository
	students StudentDirectory
	notify   *notification.Manager
}

func NewService(repo Repository, students StudentDirectory, notify *notification.Manager) *Service {
	return &Service{repo: repo, students: students, notify: notify}
}

func (s *Service) Record(ctx context.Context, r *LabResult) error {
	if r.StudentID == uuid.Nil {
		return fmt.Errorf("student_id is required")
	}
	if r.TestType == "" {
		return fmt.Errorf("test_type is required")
	}
	if r.CollectedAt.IsZero() {
		return fmt.Errorf("collected_at is required")
	}
	if len(r.Values) == 0 {
		return fmt.Errorf("at least one result value is required")
	}
	r.Status = StatusPending
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return s.repo.GetByID(ctx, id)
}

// Amend replaces the value set of a pending result. Released results are
// immutable.
func (s *Service) Amend(ctx context.Context, id uuid.UUID, values map[string]interface{}, notes *string) (*LabResult, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Released() {
		return nil, fmt.Errorf("released results cannot be amended")
	}
	if len(values) > 0 {
		r.Values = values
	}
	if notes != nil {
		r.Notes = notes
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Release makes the result visible to the student and emails them. The
// release is committed before the notification is attempted; a failed email
// is logged and does not undo the release.
func (s *Service) Release(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Released() {
		return nil, fmt.Errorf("result is already released")
	}

	now := time.Now().UTC()
	r.Status = StatusReleased
	r.ReleasedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	if s.notify != nil && s.students != nil {
		name, email, err := s.students.ContactFor(ctx, r.StudentID)
		if err != nil {
			log.Warn().Err(err).Str("result_id", r.ID.String()).Msg("resolve student contact failed")
			return r, nil
		}
		_, err = s.notify.SendFromTemplate(ctx, "result-released", map[string]string{
			"student_name": name,
			"test_type":    r.TestType,
			"test_date":    r.CollectedAt.Format("2006-01-02"),
		}, email)
		if err != nil {
			log.Warn().Err(err).Str("result_id", r.ID.String()).Msg("release notification failed")
		}
	}
	return r, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID uuid.UUID, onlyReleased bool, limit, offset int) ([]*LabResult, int, error) {
	return s.repo.ListByStudent(ctx, studentID, onlyReleased, limit, offset)
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*LabResult, int, error) {
	return s.repo.ListPending(ctx, limit, offset)
}
