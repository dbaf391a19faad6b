// Package identity resolves account ids to accounts. The local directory is
// the account table itself; HTTPDirectory asks a remote identity service.
package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/andy/oficina/internal/domain"
)

// Directory looks accounts up by id. Absent accounts are reported as
// errors.NotFound.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}
