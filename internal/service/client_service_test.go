package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
)

type clientFixture struct {
	svc   ClientService
	repo  *mockClientRepo
	user  *domain.Account
	other *domain.Account
	admin *domain.Account
}

func newClientFixture() *clientFixture {
	user := &domain.Account{ID: uuid.New(), Username: "user", Role: domain.RoleUser}
	other := &domain.Account{ID: uuid.New(), Username: "other", Role: domain.RoleUser}
	admin := &domain.Account{ID: uuid.New(), Username: "admin", Role: domain.RoleAdmin}
	dir := &mockDirectory{accounts: map[uuid.UUID]*domain.Account{
		user.ID: user, other.ID: other, admin.ID: admin,
	}}
	repo := newMockClientRepo()
	return &clientFixture{
		svc:   NewClientService(repo, dir, metrics.NewRecorder()),
		repo:  repo,
		user:  user,
		other: other,
		admin: admin,
	}
}

func validClient() *domain.Client {
	c := domain.NewClient("Maria Silva", "maria@oficina.com", "81987654321")
	c.Address = &domain.Address{Street: "Rua das Flores, 12", City: "Recife", PostalCode: "50000-000"}
	return c
}

func TestClientService_CreateStampsAuthor(t *testing.T) {
	f := newClientFixture()

	got, err := f.svc.Create(context.Background(), validClient(), f.user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AuthorID != f.user.ID {
		t.Fatalf("expected author %s, got %s", f.user.ID, got.AuthorID)
	}

	stored, err := f.svc.Get(context.Background(), got.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Maria Silva" || stored.Phone != "81987654321" || stored.Address.City != "Recife" {
		t.Fatalf("unexpected stored client: %+v", stored)
	}
}

func TestClientService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.Client)
		want   string
	}{
		{"blank name", func(c *domain.Client) { c.Name = "  " }, "name"},
		{"blank email", func(c *domain.Client) { c.Email = "" }, "email"},
		{"bad email", func(c *domain.Client) { c.Email = "not-an-email" }, "email"},
		{"short phone", func(c *domain.Client) { c.Phone = "123" }, "phone"},
		{"letters in phone", func(c *domain.Client) { c.Phone = "123456789a1" }, "phone"},
		{"blank street", func(c *domain.Client) { c.Address.Street = "" }, "street"},
		{"blank city", func(c *domain.Client) { c.Address.City = "" }, "city"},
		{"bad postal code", func(c *domain.Client) { c.Address.PostalCode = "1234-567" }, "postal code"},
		{"name before email", func(c *domain.Client) { c.Name = ""; c.Email = "bad" }, "name"},
		{"email before phone", func(c *domain.Client) { c.Email = "bad"; c.Phone = "1" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClientFixture()
			c := validClient()
			tt.mutate(c)

			_, err := f.svc.Create(context.Background(), c, f.user.ID)
			if !errors.IsNotValid(err) {
				t.Fatalf("expected not valid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error about %q, got %q", tt.want, err)
			}
			if f.repo.created != nil {
				t.Fatal("nothing should be persisted")
			}
		})
	}
}

func TestClientService_CreateNil(t *testing.T) {
	f := newClientFixture()
	if _, err := f.svc.Create(context.Background(), nil, f.user.ID); !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
}

func TestClientService_CreateDuplicateEmail(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, validClient(), f.user.ID); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := domain.NewClient("Other Person", "maria@oficina.com", "1134567890")
	_, err := f.svc.Create(ctx, second, f.other.ID)
	if !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestClientService_CreateDuplicateFromStorage(t *testing.T) {
	f := newClientFixture()
	f.repo.createErr = fmt.Errorf("failed to create client: %w", repository.ErrIntegrityViolation)

	_, err := f.svc.Create(context.Background(), validClient(), f.user.ID)
	if !errors.IsNotValid(err) {
		t.Fatalf("expected integrity violation to surface as not valid, got %v", err)
	}
}

func TestClientService_CreateUnexpectedStorageFailure(t *testing.T) {
	f := newClientFixture()
	f.repo.createErr = fmt.Errorf("failed to create client: disk I/O error")

	_, err := f.svc.Create(context.Background(), validClient(), f.user.ID)
	if err == nil || ErrorKind(err) != KindUnexpected {
		t.Fatalf("expected unexpected failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk I/O error") {
		t.Fatalf("cause should not be masked: %v", err)
	}
}

func TestClientService_CreateUnknownAuthor(t *testing.T) {
	f := newClientFixture()
	_, err := f.svc.Create(context.Background(), validClient(), uuid.New())
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientService_ListByIDs(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()
	a := f.repo.add(validClient())
	b := f.repo.add(domain.NewClient("B", "b@oficina.com", "1134567890"))

	got, err := f.svc.ListByIDs(ctx, []int64{b.ID, a.ID, a.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(got))
	}

	_, err = f.svc.ListByIDs(ctx, []int64{a.ID, 99, b.ID, 42, 99})
	if !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "clients not found: 99, 42") {
		t.Fatalf("expected missing ids in request order, got %q", err)
	}
}

func TestClientService_UpdateAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		actor   func(f *clientFixture) domain.Actor
		wantErr bool
	}{
		{"author", func(f *clientFixture) domain.Actor { return f.user.Actor() }, false},
		{"admin", func(f *clientFixture) domain.Actor { return f.admin.Actor() }, false},
		{"stranger", func(f *clientFixture) domain.Actor { return f.other.Actor() }, true},
		{"anonymous", func(f *clientFixture) domain.Actor { return domain.Actor{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClientFixture()
			ctx := context.Background()
			c, err := f.svc.Create(ctx, validClient(), f.user.ID)
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			changes := ClientChanges{Name: "Maria S.", Phone: "8133334444"}
			_, err = f.svc.Update(ctx, c.ID, changes, tt.actor(f))
			if tt.wantErr {
				if !errors.IsForbidden(err) {
					t.Fatalf("expected forbidden, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			stored, _ := f.repo.GetByID(ctx, c.ID)
			if stored.Name != "Maria S." || stored.Phone != "8133334444" || stored.Address != nil {
				t.Fatalf("changes not applied: %+v", stored)
			}
			if stored.Email != "maria@oficina.com" || stored.AuthorID != f.user.ID {
				t.Fatalf("email and author must not change: %+v", stored)
			}
		})
	}
}

func TestClientService_UpdateNotFoundBeforeForbidden(t *testing.T) {
	f := newClientFixture()
	_, err := f.svc.Update(context.Background(), 77, ClientChanges{Name: "x", Phone: "1234567890"}, f.other.Actor())
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientService_UpdateValidatesNewValues(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, validClient(), f.user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Update(ctx, c.ID, ClientChanges{Name: "Maria", Phone: "12"}, f.user.Actor())
	if !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
	stored, _ := f.repo.GetByID(ctx, c.ID)
	if stored.Phone != "81987654321" {
		t.Fatalf("invalid update must not persist, phone is %s", stored.Phone)
	}
}

func TestClientService_Delete(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, validClient(), f.user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, c.ID, f.other.Actor()); !errors.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.svc.Delete(ctx, c.ID, f.admin.Actor()); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := f.svc.Delete(ctx, c.ID, f.admin.Actor()); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientService_DeleteReferencedClient(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, validClient(), f.user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.repo.deleteErr = fmt.Errorf("failed to delete client: %w", repository.ErrIntegrityViolation)

	if err := f.svc.Delete(ctx, c.ID, f.user.Actor()); !errors.IsNotValid(err) {
		t.Fatalf("expected not valid, got %v", err)
	}
}

func TestClientService_ListByAuthor(t *testing.T) {
	f := newClientFixture()
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, validClient(), f.user.ID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(ctx, domain.NewClient("B", "b@oficina.com", "1134567890"), f.other.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := f.svc.ListByAuthor(ctx, f.other.ID, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].Email != "b@oficina.com" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
