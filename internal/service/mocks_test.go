package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/repository"
)

// mock implementations
type mockClientRepo struct {
	clients   map[int64]*domain.Client
	nextID    int64
	createErr error
	deleteErr error
	created   *domain.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[int64]*domain.Client)}
}

func (m *mockClientRepo) add(c *domain.Client) *domain.Client {
	m.nextID++
	c.ID = m.nextID
	m.clients[c.ID] = c
	return c
}

func (m *mockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(client)
	m.created = client
	return nil
}
func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	if c, ok := m.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errors.NotFoundf("client %d", id)
}
func (m *mockClientRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0)
	for _, id := range ids {
		if c, ok := m.clients[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m *mockClientRepo) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Client], error) {
	return domain.Page[*domain.Client]{Page: page.Page, Size: page.Size, Total: int64(len(m.clients))}, nil
}
func (m *mockClientRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Client], error) {
	var items []*domain.Client
	for _, c := range m.clients {
		if c.AuthorID == authorID {
			items = append(items, c)
		}
	}
	return domain.Page[*domain.Client]{Items: items, Page: page.Page, Size: page.Size, Total: int64(len(items))}, nil
}
func (m *mockClientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, c := range m.clients {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}
func (m *mockClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := m.clients[client.ID]; !ok {
		return errors.NotFoundf("client %d", client.ID)
	}
	cp := *client
	m.clients[client.ID] = &cp
	return nil
}
func (m *mockClientRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.clients[id]; !ok {
		return errors.NotFoundf("client %d", id)
	}
	delete(m.clients, id)
	return nil
}

type mockDirectory struct {
	accounts map[uuid.UUID]*domain.Account
}

func (m *mockDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, errors.NotFoundf("account %s", id)
}

type mockServiceRepo struct {
	services map[int64]*domain.Service
}

func (m *mockServiceRepo) Create(ctx context.Context, service *domain.Service) error {
	service.ID = int64(len(m.services) + 1)
	m.services[service.ID] = service
	return nil
}
func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	if s, ok := m.services[id]; ok {
		return s, nil
	}
	return nil, errors.NotFoundf("service %d", id)
}
func (m *mockServiceRepo) List(ctx context.Context) ([]*domain.Service, error) { return nil, nil }

type mockPartRepo struct {
	parts map[int64]*domain.Part
}

func (m *mockPartRepo) Create(ctx context.Context, part *domain.Part) error {
	part.ID = int64(len(m.parts) + 1)
	m.parts[part.ID] = part
	return nil
}
func (m *mockPartRepo) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	if p, ok := m.parts[id]; ok {
		return p, nil
	}
	return nil, errors.NotFoundf("part %d", id)
}
func (m *mockPartRepo) List(ctx context.Context) ([]*domain.Part, error) { return nil, nil }

type mockBudgetRepo struct {
	budgets  map[int64]*domain.Budget
	nextID   int64
	writes   int
	writeErr error
}

func newMockBudgetRepo() *mockBudgetRepo {
	return &mockBudgetRepo{budgets: make(map[int64]*domain.Budget)}
}

func (m *mockBudgetRepo) Create(ctx context.Context, budget *domain.Budget) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if err := budget.Validate(); err != nil {
		return err
	}
	m.nextID++
	budget.ID = m.nextID
	m.budgets[budget.ID] = budget
	m.writes++
	return nil
}
func (m *mockBudgetRepo) Replace(ctx context.Context, budget *domain.Budget) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.budgets[budget.ID]; !ok {
		return errors.NotFoundf("budget %d", budget.ID)
	}
	m.budgets[budget.ID] = budget
	m.writes++
	return nil
}
func (m *mockBudgetRepo) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	if b, ok := m.budgets[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, errors.NotFoundf("budget %d", id)
}
func (m *mockBudgetRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Budget, error) {
	out := make([]*domain.Budget, 0)
	for _, id := range ids {
		if b, ok := m.budgets[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}
func (m *mockBudgetRepo) List(ctx context.Context) ([]*domain.Budget, error) {
	out := make([]*domain.Budget, 0, len(m.budgets))
	for i := int64(1); i <= m.nextID; i++ {
		if b, ok := m.budgets[i]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}
func (m *mockBudgetRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.budgets[id]
	return ok, nil
}
func (m *mockBudgetRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.budgets[id]; !ok {
		return errors.NotFoundf("budget %d", id)
	}
	delete(m.budgets, id)
	return nil
}

type mockAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
	created  []*domain.Account
}

func (m *mockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	for _, a := range m.accounts {
		if a.Username == account.Username {
			return fmt.Errorf("failed to create account: %w", repository.ErrIntegrityViolation)
		}
	}
	account.ID = uuid.New()
	m.accounts[account.ID] = account
	m.created = append(m.created, account)
	return nil
}
func (m *mockAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, errors.NotFoundf("account %s", id)
}
func (m *mockAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, errors.NotFoundf("account %q", username)
}
func (m *mockAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}
