package department

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *Department) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if d.Code == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.repo.GetByCode(ctx, d.Code); err == nil {
		return fmt.Errorf("department code %s already exists", d.Code)
	}
	d.Active = true
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Department) error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	return s.repo.Update(ctx, d)
}

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	return s.repo.List(ctx)
}
