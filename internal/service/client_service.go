package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/identity"
	"github.com/andy/oficina/internal/metrics"
	"github.com/andy/oficina/internal/repository"
)

// ClientChanges are the fields an update may overwrite. A nil Address
// removes the stored one.
type ClientChanges struct {
	Name    string
	Phone   string
	Address *domain.Address
}

// ClientService validates, stores and authorizes changes to clients
type ClientService interface {
	// Create validates client, stamps authorID as its author and stores it
	Create(ctx context.Context, client *domain.Client, authorID uuid.UUID) (*domain.Client, error)

	// Get returns one client by ID
	Get(ctx context.Context, id int64) (*domain.Client, error)

	// List returns one page of all clients
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Client], error)

	// ListByAuthor returns one page of the clients created by authorID
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Client], error)

	// ListByIDs returns every requested client, failing if any id is unknown
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Client, error)

	// Update overwrites name, phone and address when actor may mutate the client
	Update(ctx context.Context, id int64, changes ClientChanges, actor domain.Actor) (*domain.Client, error)

	// Delete removes the client when actor may mutate it
	Delete(ctx context.Context, id int64, actor domain.Actor) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	accounts   identity.Directory
	metrics    *metrics.Recorder
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repository.ClientRepository,
	accounts identity.Directory,
	rec *metrics.Recorder,
) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		accounts:   accounts,
		metrics:    rec,
	}
}

func (s *clientService) Create(ctx context.Context, client *domain.Client, authorID uuid.UUID) (_ *domain.Client, err error) {
	defer observe(s.metrics, "client.create", time.Now(), &err)

	if client == nil {
		return nil, errors.NewNotValid(nil, "client must not be nil")
	}
	if err := domain.ValidateName(client.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(client.Email); err != nil {
		return nil, err
	}

	taken, err := s.clientRepo.ExistsByEmail(ctx, client.Email)
	if err != nil {
		return nil, errors.Annotate(err, "unexpected storage failure")
	}
	if taken {
		return nil, errors.NewNotValid(nil, "email "+strconv.Quote(client.Email)+" already registered")
	}

	if err := domain.ValidateContact(client); err != nil {
		return nil, err
	}

	author, err := s.accounts.FindByID(ctx, authorID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("author %s", authorID)
		}
		return nil, errors.Annotate(err, "resolve author")
	}
	client.AuthorID = author.ID

	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, storageErr(err, "email "+strconv.Quote(client.Email)+" already registered")
	}

	logger.Infof("client %d created by %s", client.ID, author.ID)
	return client, nil
}

func (s *clientService) Get(ctx context.Context, id int64) (_ *domain.Client, err error) {
	defer observe(s.metrics, "client.get", time.Now(), &err)

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, page domain.PageRequest) (_ domain.Page[*domain.Client], err error) {
	defer observe(s.metrics, "client.list", time.Now(), &err)

	result, err := s.clientRepo.List(ctx, page)
	if err != nil {
		return domain.Page[*domain.Client]{}, lookupErr(err)
	}
	return result, nil
}

func (s *clientService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (_ domain.Page[*domain.Client], err error) {
	defer observe(s.metrics, "client.list_by_author", time.Now(), &err)

	result, err := s.clientRepo.ListByAuthor(ctx, authorID, page)
	if err != nil {
		return domain.Page[*domain.Client]{}, lookupErr(err)
	}
	return result, nil
}

func (s *clientService) ListByIDs(ctx context.Context, ids []int64) (_ []*domain.Client, err error) {
	defer observe(s.metrics, "client.list_by_ids", time.Now(), &err)

	unique := dedupe(ids)
	clients, err := s.clientRepo.ListByIDs(ctx, unique)
	if err != nil {
		return nil, lookupErr(err)
	}

	found := make(map[int64]bool, len(clients))
	for _, c := range clients {
		found[c.ID] = true
	}
	var missing []string
	for _, id := range unique {
		if !found[id] {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewNotValid(nil, "clients not found: "+strings.Join(missing, ", "))
	}
	return clients, nil
}

func (s *clientService) Update(ctx context.Context, id int64, changes ClientChanges, actor domain.Actor) (_ *domain.Client, err error) {
	defer observe(s.metrics, "client.update", time.Now(), &err)

	client, err := s.authorize(ctx, id, actor, "update")
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(changes.Name)
	client.Phone = strings.TrimSpace(changes.Phone)
	client.Address = changes.Address

	if err := domain.ValidateName(client.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateContact(client); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, storageErr(err, "client "+strconv.FormatInt(id, 10)+" violates a storage constraint")
	}

	logger.Infof("client %d updated by %s", id, actor.ID)
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id int64, actor domain.Actor) (err error) {
	defer observe(s.metrics, "client.delete", time.Now(), &err)

	if _, err := s.authorize(ctx, id, actor, "delete"); err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		return storageErr(err, "client "+strconv.FormatInt(id, 10)+" still has budgets")
	}

	logger.Infof("client %d deleted by %s", id, actor.ID)
	return nil
}

// authorize loads the client and checks that actor may mutate it
func (s *clientService) authorize(ctx context.Context, id int64, actor domain.Actor, action string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err)
	}
	if !domain.CanMutate(actor, client.AuthorID) {
		logger.Warningf("%s of client %d refused for %s", action, id, actor.ID)
		return nil, errors.Forbiddenf("%s client %d", action, id)
	}
	return client, nil
}

// lookupErr passes typed conditions through and annotates the rest
func lookupErr(err error) error {
	if errors.IsNotFound(err) || errors.IsNotValid(err) {
		return err
	}
	return errors.Annotate(err, "unexpected storage failure")
}

// dedupe returns ids without repeats, keeping first occurrences in order
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
