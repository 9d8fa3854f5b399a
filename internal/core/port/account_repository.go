package port

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// AccountFilter narrows List and Count queries.
type AccountFilter struct {
	Role   domain.Role
	Locked *bool
	Offset int
	Limit  int
}

// AccountRepository exposes persistence behavior for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	Count(ctx context.Context, filter AccountFilter) (int, error)

	// WithinTx runs fn against a repository view bound to a single
	// transaction. The transaction commits when fn returns nil and
	// rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repo AccountRepository) error) error
}
