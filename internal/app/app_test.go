package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/config"
	"github.com/andy/oficina/internal/crypto"
	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/identity"
	"github.com/andy/oficina/internal/repository"
	"github.com/andy/oficina/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Database.Path = filepath.Join(dir, "oficina.db")
	cfg.Metrics.Textfile = filepath.Join(dir, "metrics", "oficina.prom")
	return cfg
}

func TestNewWithConfig_LocalDirectory(t *testing.T) {
	t.Setenv(crypto.KeyEnv, "test-key")
	ctx := context.Background()

	a, err := NewWithConfig(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if _, ok := a.Directory.(*repository.AccountRepo); !ok {
		t.Fatalf("expected the local account directory, got %T", a.Directory)
	}

	author, err := a.AccountService.Register(ctx, "mecanico", false)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	c := domain.NewClient("Maria", "maria@oficina.com", "81987654321")
	created, err := a.ClientService.Create(ctx, c, author.ID)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	svc, err := a.CatalogService.AddService(ctx, "Revisão", 150)
	if err != nil {
		t.Fatalf("add service: %v", err)
	}
	view, err := a.BudgetService.Create(ctx, service.BudgetRequest{
		ClientID: created.ID,
		Services: []service.ServiceQuantity{{ServiceID: svc.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if view.Total != 300 {
		t.Fatalf("expected total 300, got %.2f", view.Total)
	}

	if err := a.ClientService.Delete(ctx, created.ID, author.Actor()); !errors.IsNotValid(err) {
		t.Fatalf("client with budgets must not be deleted, got %v", err)
	}
}

func TestNewWithConfig_RemoteDirectory(t *testing.T) {
	t.Setenv(crypto.KeyEnv, "test-key")
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Identity.BaseURL = srv.URL
	a, err := NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if _, ok := a.Directory.(*identity.HTTPDirectory); !ok {
		t.Fatalf("expected the http directory, got %T", a.Directory)
	}
	c := domain.NewClient("Maria", "maria@oficina.com", "81987654321")
	if _, err := a.ClientService.Create(context.Background(), c, uuid.New()); !errors.IsNotFound(err) {
		t.Fatalf("expected unknown author, got %v", err)
	}
}

func TestConfigureLogging_BadSpec(t *testing.T) {
	if err := ConfigureLogging("oficina=LOUD"); err == nil {
		t.Fatal("expected an error")
	}
}
