package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/db"
	"github.com/andy/oficina/internal/domain"
)

// AccountRepo is a SQLite implementation of AccountRepository. It doubles as
// the local identity directory.
type AccountRepo struct {
	db *db.DB
}

// NewAccountRepo creates a new AccountRepo
func NewAccountRepo(database *db.DB) *AccountRepo {
	return &AccountRepo{db: database}
}

// Create inserts a new account, assigning a random ID when none is set
func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Role == "" {
		account.Role = domain.RoleUser
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, role) VALUES (?, ?, ?)`,
		account.ID.String(), account.Username, string(account.Role),
	)
	if err != nil {
		return wrapWriteErr("create account", err)
	}
	return nil
}

// FindByID retrieves an account by ID
func (r *AccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, username, role FROM accounts WHERE id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("account %s", id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetByUsername retrieves an account by username
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT id, username, role FROM accounts WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("account %q", username)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// List retrieves every account ordered by username
func (r *AccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, role FROM accounts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	a := &domain.Account{}
	var id, role string
	if err := row.Scan(&id, &a.Username, &role); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account id: %w", err)
	}
	a.ID = parsed
	a.Role = domain.Role(role)
	return a, nil
}
