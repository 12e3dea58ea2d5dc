package ports

import (
	"context"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, username string)
	// VerifyToken resolves a bearer token to its account. Unknown or expired
	// tokens report an authentication failure.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}
