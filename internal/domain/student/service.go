package student

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusmed/campusmed/internal/domain/intake"
	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo     Repository
	registry *intake.Registry
	notify   *notification.Manager
}

// NewService wires the student service. notify may be nil when notifications
// are disabled.
func NewService(repo Repository, registry *intake.Registry, notify *notification.Manager) *Service {
	return &Service{repo: repo, registry: registry, notify: notify}
}

// Register creates the student record and seeds the intake form state. The
// number of form steps depends on the student's gender, so it is fixed at
// registration time.
func (s *Service) Register(ctx context.Context, st *Student) error {
	if strings.TrimSpace(st.FirstName) == "" {
		return fmt.Errorf("first_name is required")
	}
	if strings.TrimSpace(st.LastName) == "" {
		return fmt.Errorf("last_name is required")
	}
	if !strings.Contains(st.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if st.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if st.StudentNumber == "" {
		return fmt.Errorf("student_number is required")
	}

	st.Email = strings.ToLower(strings.TrimSpace(st.Email))
	st.Active = true

	totalSteps := s.registry.TotalSteps(st.Gender)
	if err := s.repo.Create(ctx, st, totalSteps); err != nil {
		return err
	}

	if s.notify != nil {
		_, err := s.notify.SendFromTemplate(ctx, "registration-welcome", map[string]string{
			"student_name": st.FullName(),
		}, st.Email)
		if err != nil {
			// Registration is committed; a failed welcome email is not a
			// reason to fail the request.
			log.Warn().Err(err).Str("student_id", st.ID.String()).Msg("welcome notification failed")
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) GetByStudentNumber(ctx context.Context, number string) (*Student, error) {
	return s.repo.GetByStudentNumber(ctx, number)
}

func (s *Service) Update(ctx context.Context, st *Student) error {
	if st.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if st.Email != "" && !strings.Contains(st.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	st.Email = strings.ToLower(strings.TrimSpace(st.Email))
	return s.repo.Update(ctx, st)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Student, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Student, int, error) {
	return s.repo.ListByDepartment(ctx, departmentID, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Student, int, error) {
	return s.repo.Search(ctx, query, limit, offset)
}
