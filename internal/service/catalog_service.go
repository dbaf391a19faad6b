package service

import (
	"context"
	"strings"
	"time"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
)

// CatalogService maintains the services and parts that budgets reference
type CatalogService interface {
	AddService(ctx context.Context, name string, price float64) (*domain.Service, error)
	ListServices(ctx context.Context) ([]*domain.Service, error)
	AddPart(ctx context.Context, name string, price float64) (*domain.Part, error)
	ListParts(ctx context.Context) ([]*domain.Part, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	partRepo    repository.PartRepository
	metrics     *metrics.Recorder
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	serviceRepo repository.ServiceRepository,
	partRepo repository.PartRepository,
	rec *metrics.Recorder,
) CatalogService {
	return &catalogService{serviceRepo: serviceRepo, partRepo: partRepo, metrics: rec}
}

func (s *catalogService) AddService(ctx context.Context, name string, price float64) (_ *domain.Service, err error) {
	defer observe(s.metrics, "catalog.add_service", time.Now(), &err)

	svc := &domain.Service{Name: strings.TrimSpace(name), Price: price}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, storageErr(err, "service violates a storage constraint")
	}
	logger.Infof("service %d %q added at %.2f", svc.ID, svc.Name, svc.Price)
	return svc, nil
}

func (s *catalogService) ListServices(ctx context.Context) (_ []*domain.Service, err error) {
	defer observe(s.metrics, "catalog.list_services", time.Now(), &err)

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, lookupErr(err)
	}
	return services, nil
}

func (s *catalogService) AddPart(ctx context.Context, name string, price float64) (_ *domain.Part, err error) {
	defer observe(s.metrics, "catalog.add_part", time.Now(), &err)

	part := &domain.Part{Name: strings.TrimSpace(name), Price: price}
	if err := part.Validate(); err != nil {
		return nil, err
	}
	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, storageErr(err, "part violates a storage constraint")
	}
	logger.Infof("part %d %q added at %.2f", part.ID, part.Name, part.Price)
	return part, nil
}

func (s *catalogService) ListParts(ctx context.Context) (_ []*domain.Part, err error) {
	defer observe(s.metrics, "catalog.list_parts", time.Now(), &err)

	parts, err := s.partRepo.List(ctx)
	if err != nil {
		return nil, lookupErr(err)
	}
	return parts, nil
}
