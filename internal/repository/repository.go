package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/andy/oficina/internal/domain"
)

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	// ListByIDs returns the clients that exist among ids; missing ids are skipped
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Client, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Client], error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Client], error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository manages the service catalog
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
}

// PartRepository manages the parts catalog
type PartRepository interface {
	Create(ctx context.Context, part *domain.Part) error
	GetByID(ctx context.Context, id int64) (*domain.Part, error)
	List(ctx context.Context) ([]*domain.Part, error)
}

// BudgetRepository manages budgets together with their lines. Create and
// Replace write the budget row and every line in one transaction.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) error
	// Replace overwrites the budget row and swaps its entire line set
	Replace(ctx context.Context, budget *domain.Budget) error
	GetByID(ctx context.Context, id int64) (*domain.Budget, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Budget, error)
	List(ctx context.Context) ([]*domain.Budget, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// AccountRepository manages locally known accounts
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}
