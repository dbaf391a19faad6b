package service

import (
	"context"
	"testing"

	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/metrics"
)

func TestCatalogService_AddServiceTrimsName(t *testing.T) {
	repo := &mockServiceRepo{services: make(map[int64]*domain.Service)}
	svc := NewCatalogService(repo, &mockPartRepo{parts: make(map[int64]*domain.Part)}, metrics.NewRecorder())

	got, err := svc.AddService(context.Background(), "  Alinhamento ", 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == 0 {
		t.Fatal("expected an assigned ID")
	}
	if got.Name != "Alinhamento" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
	if _, ok := repo.services[got.ID]; !ok {
		t.Fatal("expected service to be stored")
	}
}

func TestCatalogService_RejectsInvalidItems(t *testing.T) {
	services := &mockServiceRepo{services: make(map[int64]*domain.Service)}
	parts := &mockPartRepo{parts: make(map[int64]*domain.Part)}
	svc := NewCatalogService(services, parts, nil)

	if _, err := svc.AddService(context.Background(), "   ", 10); !errors.Is(err, errors.NotValid) {
		t.Fatalf("expected NotValid for blank name, got %v", err)
	}
	if _, err := svc.AddPart(context.Background(), "Filtro", -1); !errors.Is(err, errors.NotValid) {
		t.Fatalf("expected NotValid for negative price, got %v", err)
	}
	if len(services.services) != 0 || len(parts.parts) != 0 {
		t.Fatal("invalid items must not be stored")
	}
}

func TestCatalogService_AddPartAllowsZeroPrice(t *testing.T) {
	parts := &mockPartRepo{parts: make(map[int64]*domain.Part)}
	svc := NewCatalogService(&mockServiceRepo{services: make(map[int64]*domain.Service)}, parts, nil)

	got, err := svc.AddPart(context.Background(), "Brinde", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Price != 0 {
		t.Fatalf("expected price 0, got %v", got.Price)
	}
}
