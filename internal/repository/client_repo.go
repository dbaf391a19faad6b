package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/andy/oficina/internal/db"
	"github.com/andy/oficina/internal/domain"
)

const clientColumns = `id, name, email, phone, street, city, postal_code, author_id, created_at, updated_at`

// clientSortColumns whitelists the fields a client page can be ordered by
var clientSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"phone":      "phone",
	"created_at": "created_at",
	"createdAt":  "created_at",
}

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// Create inserts a new client into the database. A duplicate email is
// reported wrapped in ErrIntegrityViolation.
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (name, email, phone, street, city, postal_code, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	street, city, postal := addressArgs(client.Address)
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		street,
		city,
		postal,
		client.AuthorID.String(),
		client.CreatedAt.Format(timeLayout),
		client.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return wrapWriteErr("create client", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get client ID: %w", err)
	}

	client.ID = id
	return nil
}

// GetByID retrieves a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("client %d", id)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListByIDs retrieves every client whose ID is in ids, ordered by ID
func (r *ClientRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Client, error) {
	if len(ids) == 0 {
		return make([]*domain.Client, 0), nil
	}

	in, args := inClause(ids)
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id IN ` + in + ` ORDER BY id`
	return r.queryClients(ctx, query, args...)
}

// List retrieves one page of all clients
func (r *ClientRepo) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Client], error) {
	return r.listPage(ctx, "", nil, page)
}

// ListByAuthor retrieves one page of the clients created by authorID
func (r *ClientRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Client], error) {
	return r.listPage(ctx, "WHERE author_id = ?", []any{authorID.String()}, page)
}

func (r *ClientRepo) listPage(ctx context.Context, where string, args []any, page domain.PageRequest) (domain.Page[*domain.Client], error) {
	if err := page.Validate(); err != nil {
		return domain.Page[*domain.Client]{}, err
	}
	sortField := page.SortField
	if sortField == "" {
		sortField = "id"
	}
	column, ok := clientSortColumns[sortField]
	if !ok {
		return domain.Page[*domain.Client]{}, errors.NotValidf("sort field %q", page.SortField)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM clients ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.Page[*domain.Client]{}, fmt.Errorf("failed to count clients: %w", err)
	}

	query := `SELECT ` + clientColumns + ` FROM clients ` + where +
		` ORDER BY ` + column + ` ASC, id ASC LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), page.Size, page.Offset())

	clients, err := r.queryClients(ctx, query, pageArgs...)
	if err != nil {
		return domain.Page[*domain.Client]{}, err
	}

	return domain.Page[*domain.Client]{
		Items: clients,
		Page:  page.Page,
		Size:  page.Size,
		Total: total,
	}, nil
}

// ExistsByEmail reports whether any client already uses email
func (r *ClientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client email: %w", err)
	}
	return exists, nil
}

// Update updates an existing client. Email and author are never rewritten.
func (r *ClientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now()

	query := `
		UPDATE clients
		SET name = ?, phone = ?, street = ?, city = ?, postal_code = ?, updated_at = ?
		WHERE id = ?
	`

	street, city, postal := addressArgs(client.Address)
	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Phone,
		street,
		city,
		postal,
		client.UpdatedAt.Format(timeLayout),
		client.ID,
	)
	if err != nil {
		return wrapWriteErr("update client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFoundf("client %d", client.ID)
	}

	return nil
}

// Delete removes a client. Clients still referenced by budgets are rejected
// with ErrIntegrityViolation.
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("delete client", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFoundf("client %d", id)
	}

	return nil
}

func (r *ClientRepo) queryClients(ctx context.Context, query string, args ...any) ([]*domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanClient reads one row selected with clientColumns
func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	var street, city, postal sql.NullString
	var authorID, createdAt, updatedAt string

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&street,
		&city,
		&postal,
		&authorID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if street.Valid || city.Valid {
		client.Address = &domain.Address{
			Street:     street.String,
			City:       city.String,
			PostalCode: postal.String,
		}
	}

	if client.AuthorID, err = uuid.Parse(authorID); err != nil {
		return nil, fmt.Errorf("failed to parse author_id: %w", err)
	}
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return client, nil
}

// addressArgs flattens an optional address into nullable columns
func addressArgs(a *domain.Address) (street, city, postal any) {
	if a == nil {
		return nil, nil, nil
	}
	street, city = a.Street, a.City
	if a.PostalCode != "" {
		postal = a.PostalCode
	}
	return street, city, postal
}
