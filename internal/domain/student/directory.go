package student

import (
	"context"

	"github.com/google/uuid"
)

// Directory adapts the student service to the contact-lookup interfaces the
// appointment and lab result packages declare.
type Directory struct {
	svc *Service
}

func NewDirectory(svc *Service) *Directory {
	return &Directory{svc: svc}
}

func (d *Directory) ContactFor(ctx context.Context, studentID uuid.UUID) (string, string, error) {
	st, err := d.svc.Get(ctx, studentID)
	if err != nil {
		return "", "", err
	}
	return st.FullName(), st.Email, nil
}
