package account

import (
	"time"

	"github.com/google/uuid"
)

// Account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Account is a staff login on the clinic side. Student identities are not
// accounts; they arrive in tokens minted by the campus identity provider.
type Account struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	Email       string     `db:"email" json:"email"`
	DisplayName *string    `db:"display_name" json:"display_name,omitempty"`
	Role        string     `db:"role" json:"role"`
	Status      string     `db:"status" json:"status"`
	LastLogin   *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
