package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/juju/errors"

	"github.com/andy/oficina/internal/db"
	"github.com/andy/oficina/internal/domain"
)

// ServiceRepo is a SQLite implementation of ServiceRepository
type ServiceRepo struct {
	db *db.DB
}

// NewServiceRepo creates a new ServiceRepo
func NewServiceRepo(database *db.DB) *ServiceRepo {
	return &ServiceRepo{db: database}
}

// Create inserts a new service into the catalog
func (r *ServiceRepo) Create(ctx context.Context, service *domain.Service) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO services (name, price) VALUES (?, ?)`,
		service.Name, service.Price,
	)
	if err != nil {
		return wrapWriteErr("create service", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get service ID: %w", err)
	}
	service.ID = id
	return nil
}

// GetByID retrieves a service by ID
func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	service := &domain.Service{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM services WHERE id = ?`, id).
		Scan(&service.ID, &service.Name, &service.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("service %d", id)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

// List retrieves the whole service catalog ordered by name
func (r *ServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM services ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		s := &domain.Service{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}
	return services, nil
}

// PartRepo is a SQLite implementation of PartRepository
type PartRepo struct {
	db *db.DB
}

// NewPartRepo creates a new PartRepo
func NewPartRepo(database *db.DB) *PartRepo {
	return &PartRepo{db: database}
}

// Create inserts a new part into the catalog
func (r *PartRepo) Create(ctx context.Context, part *domain.Part) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO parts (name, price) VALUES (?, ?)`,
		part.Name, part.Price,
	)
	if err != nil {
		return wrapWriteErr("create part", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get part ID: %w", err)
	}
	part.ID = id
	return nil
}

// GetByID retrieves a part by ID
func (r *PartRepo) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	part := &domain.Part{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM parts WHERE id = ?`, id).
		Scan(&part.ID, &part.Name, &part.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("part %d", id)
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return part, nil
}

// List retrieves the whole parts catalog ordered by name
func (r *PartRepo) List(ctx context.Context) ([]*domain.Part, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM parts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	parts := make([]*domain.Part, 0)
	for rows.Next() {
		p := &domain.Part{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parts: %w", err)
	}
	return parts, nil
}
