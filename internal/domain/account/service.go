package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validRoles = map[string]bool{
	"admin":     true,
	"staff":     true,
	"clinician": true,
	"lab":       true,
	"registrar": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Account) error {
	a.Username = strings.ToLower(strings.TrimSpace(a.Username))
	if a.Username == "" {
		return fmt.Errorf("username is required")
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if !validRoles[a.Role] {
		return fmt.Errorf("invalid role: %s", a.Role)
	}
	if _, err := s.repo.GetByUsername(ctx, a.Username); err == nil {
		return fmt.Errorf("username %s already exists", a.Username)
	}
	a.Status = StatusActive
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Account) error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if a.Role != "" && !validRoles[a.Role] {
		return fmt.Errorf("invalid role: %s", a.Role)
	}
	if a.Status != "" && a.Status != StatusActive && a.Status != StatusSuspended {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = StatusSuspended
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	return s.repo.List(ctx, limit, offset)
}
