package ports

import (
	"context"

	"github.com/filmstore/rental-system/internal/core/domain"
)

// UserStore is the remote user collection. Replace carries the whole mutated
// record; the store performs a full replace-by-id (PATCH semantics of the
// backing endpoint).
type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Replace(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int) error
}

// AdminStore is the remote admin collection. Admin records are read-only to
// this system.
type AdminStore interface {
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
}
