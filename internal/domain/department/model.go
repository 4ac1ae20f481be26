package department

import (
	"time"

	"github.com/google/uuid"
)

// Department is an academic unit students belong to.
type Department struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Faculty   *string   `db:"faculty" json:"faculty,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
