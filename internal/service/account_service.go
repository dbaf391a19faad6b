package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/identity"
	"github.com/andy/oficina/internal/repository"
)

// AccountService registers local accounts and resolves the caller of a command
type AccountService interface {
	// Register creates a local account
	Register(ctx context.Context, username string, admin bool) (*domain.Account, error)

	// List returns every local account
	List(ctx context.Context) ([]*domain.Account, error)

	// Resolve finds an account by id through the directory, or by local
	// username when ref is not an id
	Resolve(ctx context.Context, ref string) (*domain.Account, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
	directory   identity.Directory
}

// NewAccountService creates a new account service. directory may be the
// account repository itself.
func NewAccountService(accountRepo repository.AccountRepository, directory identity.Directory) AccountService {
	return &accountService{accountRepo: accountRepo, directory: directory}
}

func (s *accountService) Register(ctx context.Context, username string, admin bool) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewNotValid(nil, "username is required")
	}

	account := &domain.Account{Username: username, Role: domain.RoleUser}
	if admin {
		account.Role = domain.RoleAdmin
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, storageErr(err, "username "+username+" already registered")
	}
	logger.Infof("account %s registered as %s", account.ID, account.Role)
	return account, nil
}

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, lookupErr(err)
	}
	return accounts, nil
}

func (s *accountService) Resolve(ctx context.Context, ref string) (*domain.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewNotValid(nil, "an account is required (--as)")
	}
	if id, err := uuid.Parse(ref); err == nil {
		account, err := s.directory.FindByID(ctx, id)
		if err != nil {
			return nil, lookupErr(err)
		}
		return account, nil
	}
	account, err := s.accountRepo.GetByUsername(ctx, ref)
	if err != nil {
		return nil, lookupErr(err)
	}
	return account, nil
}
