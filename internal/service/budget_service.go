package service

import (
	"context"
	"strconv"
	"time"

	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
)

// ServiceQuantity asks for quantity units of a catalog service
type ServiceQuantity struct {
	ServiceID int64
	Quantity  int
}

// PartQuantity asks for quantity units of a catalog part
type PartQuantity struct {
	PartID   int64
	Quantity int
}

// BudgetRequest is everything a caller may say about a budget. Totals are
// always computed from the lines.
type BudgetRequest struct {
	ClientID int64
	Services []ServiceQuantity
	Parts    []PartQuantity
}

// BudgetView is the projection returned for every budget
type BudgetView struct {
	ID        int64
	ClientID  int64
	CreatedAt time.Time
	Total     float64
	Discount  float64
	Services  []ServiceQuantity
	Parts     []PartQuantity
}

// AmountDue returns the total after the discount
func (v BudgetView) AmountDue() float64 {
	b := domain.Budget{Total: v.Total, Discount: v.Discount}
	return b.AmountDue()
}

// BudgetService composes budgets from catalog references and keeps their
// totals derived from the lines
type BudgetService interface {
	// Create builds and stores a new budget dated today
	Create(ctx context.Context, req BudgetRequest) (*BudgetView, error)

	// Get returns one budget by ID
	Get(ctx context.Context, id int64) (*BudgetView, error)

	// List returns every budget
	List(ctx context.Context) ([]*BudgetView, error)

	// ListByIDs returns the budgets found among ids, failing only if none is
	ListByIDs(ctx context.Context, ids []int64) ([]*BudgetView, error)

	// Update replaces the client and every line of an existing budget
	Update(ctx context.Context, id int64, req BudgetRequest) (*BudgetView, error)

	// Delete removes a budget with its lines
	Delete(ctx context.Context, id int64) error
}

type budgetService struct {
	budgetRepo  repository.BudgetRepository
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRepository
	partRepo    repository.PartRepository
	policy      domain.DiscountPolicy
	metrics     *metrics.Recorder
	now         func() time.Time
}

// BudgetOption customizes a budget service
type BudgetOption func(*budgetService)

// WithClock replaces time.Now as the source of creation dates
func WithClock(now func() time.Time) BudgetOption {
	return func(s *budgetService) { s.now = now }
}

// NewBudgetService creates a new budget service. A nil policy never discounts.
func NewBudgetService(
	budgetRepo repository.BudgetRepository,
	clientRepo repository.ClientRepository,
	serviceRepo repository.ServiceRepository,
	partRepo repository.PartRepository,
	policy domain.DiscountPolicy,
	rec *metrics.Recorder,
	opts ...BudgetOption,
) BudgetService {
	if policy == nil {
		policy = domain.NoDiscount
	}
	s := &budgetService{
		budgetRepo:  budgetRepo,
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		partRepo:    partRepo,
		policy:      policy,
		metrics:     rec,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// missingRef decides how an unknown nested reference is reported. Creation
// treats it as a bad argument, updates as a missing resource.
type missingRef func(kind string, id int64) error

func missingAsNotValid(kind string, id int64) error {
	return errors.NewNotValid(nil, kind+" not found: id "+strconv.FormatInt(id, 10))
}

func missingAsNotFound(kind string, id int64) error {
	return errors.NotFoundf("%s %d", kind, id)
}

func (s *budgetService) Create(ctx context.Context, req BudgetRequest) (_ *BudgetView, err error) {
	defer observe(s.metrics, "budget.create", time.Now(), &err)

	client, err := s.resolveClient(ctx, req.ClientID, missingAsNotValid)
	if err != nil {
		return nil, err
	}

	budget := domain.NewBudget(client, s.now())
	services, parts, err := s.resolveLines(ctx, req, missingAsNotValid)
	if err != nil {
		return nil, err
	}
	budget.ReplaceLines(services, parts)
	budget.Recalculate(s.policy)

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		if errors.IsNotValid(err) {
			return nil, err
		}
		return nil, storageErr(err, "budget references missing records")
	}

	logger.Infof("budget %d created for client %d, total %.2f", budget.ID, budget.ClientID, budget.Total)
	return toBudgetView(budget), nil
}

func (s *budgetService) Get(ctx context.Context, id int64) (_ *BudgetView, err error) {
	defer observe(s.metrics, "budget.get", time.Now(), &err)

	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err)
	}
	return toBudgetView(budget), nil
}

func (s *budgetService) List(ctx context.Context) (_ []*BudgetView, err error) {
	defer observe(s.metrics, "budget.list", time.Now(), &err)

	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, lookupErr(err)
	}
	return toBudgetViews(budgets), nil
}

func (s *budgetService) ListByIDs(ctx context.Context, ids []int64) (_ []*BudgetView, err error) {
	defer observe(s.metrics, "budget.list_by_ids", time.Now(), &err)

	budgets, err := s.budgetRepo.ListByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, lookupErr(err)
	}
	if len(budgets) == 0 {
		return nil, errors.NewNotValid(nil, "no budget found for the given ids")
	}
	return toBudgetViews(budgets), nil
}

func (s *budgetService) Update(ctx context.Context, id int64, req BudgetRequest) (_ *BudgetView, err error) {
	defer observe(s.metrics, "budget.update", time.Now(), &err)

	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err)
	}

	client, err := s.resolveClient(ctx, req.ClientID, missingAsNotFound)
	if err != nil {
		return nil, err
	}
	budget.ClientID = client.ID
	budget.Client = client

	services, parts, err := s.resolveLines(ctx, req, missingAsNotFound)
	if err != nil {
		return nil, err
	}
	budget.ReplaceLines(services, parts)
	budget.Recalculate(s.policy)

	if err := s.budgetRepo.Replace(ctx, budget); err != nil {
		if errors.IsNotValid(err) || errors.IsNotFound(err) {
			return nil, err
		}
		return nil, storageErr(err, "budget references missing records")
	}

	logger.Infof("budget %d replaced, total %.2f", budget.ID, budget.Total)
	return toBudgetView(budget), nil
}

func (s *budgetService) Delete(ctx context.Context, id int64) (err error) {
	defer observe(s.metrics, "budget.delete", time.Now(), &err)

	exists, err := s.budgetRepo.Exists(ctx, id)
	if err != nil {
		return lookupErr(err)
	}
	if !exists {
		return errors.NotFoundf("budget %d", id)
	}

	if err := s.budgetRepo.Delete(ctx, id); err != nil {
		return lookupErr(err)
	}
	logger.Infof("budget %d deleted", id)
	return nil
}

func (s *budgetService) resolveClient(ctx context.Context, id int64, missing missingRef) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, missing("client", id)
		}
		return nil, lookupErr(err)
	}
	return client, nil
}

// resolveLines turns the requested quantities into lines, checking each
// reference before its quantity
func (s *budgetService) resolveLines(ctx context.Context, req BudgetRequest, missing missingRef) ([]*domain.BudgetServiceLine, []*domain.BudgetPartLine, error) {
	services := make([]*domain.BudgetServiceLine, 0, len(req.Services))
	for _, sq := range req.Services {
		svc, err := s.serviceRepo.GetByID(ctx, sq.ServiceID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, nil, missing("service", sq.ServiceID)
			}
			return nil, nil, lookupErr(err)
		}
		if err := domain.ValidateQuantity("service", sq.ServiceID, sq.Quantity); err != nil {
			return nil, nil, err
		}
		services = append(services, &domain.BudgetServiceLine{Service: svc, Quantity: sq.Quantity})
	}

	parts := make([]*domain.BudgetPartLine, 0, len(req.Parts))
	for _, pq := range req.Parts {
		part, err := s.partRepo.GetByID(ctx, pq.PartID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, nil, missing("part", pq.PartID)
			}
			return nil, nil, lookupErr(err)
		}
		if err := domain.ValidateQuantity("part", pq.PartID, pq.Quantity); err != nil {
			return nil, nil, err
		}
		parts = append(parts, &domain.BudgetPartLine{Part: part, Quantity: pq.Quantity})
	}

	return services, parts, nil
}

func toBudgetView(b *domain.Budget) *BudgetView {
	v := &BudgetView{
		ID:        b.ID,
		ClientID:  b.ClientID,
		CreatedAt: b.CreatedAt,
		Total:     b.Total,
		Discount:  b.Discount,
		Services:  make([]ServiceQuantity, 0, len(b.ServiceLines)),
		Parts:     make([]PartQuantity, 0, len(b.PartLines)),
	}
	for _, l := range b.ServiceLines {
		v.Services = append(v.Services, ServiceQuantity{ServiceID: l.Service.ID, Quantity: l.Quantity})
	}
	for _, l := range b.PartLines {
		v.Parts = append(v.Parts, PartQuantity{PartID: l.Part.ID, Quantity: l.Quantity})
	}
	return v
}

func toBudgetViews(budgets []*domain.Budget) []*BudgetView {
	views := make([]*BudgetView, len(budgets))
	for i, b := range budgets {
		views[i] = toBudgetView(b)
	}
	return views
}
