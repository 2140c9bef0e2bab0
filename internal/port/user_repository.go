package port

import (
	"context"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// UserRecord is the stored form of a user, before permission resolution.
// Permissions, when non-empty, override the role defaults entirely.
type UserRecord struct {
	ID          string
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	StoreID     string
	StoreName   string
	Permissions []string
}

type UserRepository interface {
	// GetUserByEmail returns nil without error when no user matches
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
}
