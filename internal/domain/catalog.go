package domain

import (
	"strings"

	"github.com/juju/errors"
)

// Service is a labour item offered by the shop. Budgets only reference it.
type Service struct {
	ID    int64
	Name  string
	Price float64
}

// Part is a stock item that can be quoted in a budget.
type Part struct {
	ID    int64
	Name  string
	Price float64
}

// Validate returns an error if the service is invalid
func (s *Service) Validate() error {
	return validateCatalogItem("service", s.Name, s.Price)
}

// Validate returns an error if the part is invalid
func (p *Part) Validate() error {
	return validateCatalogItem("part", p.Name, p.Price)
}

func validateCatalogItem(kind, name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewNotValid(nil, kind+" name is required")
	}
	if price < 0 {
		return errors.NewNotValid(nil, kind+" price cannot be negative")
	}
	return nil
}
