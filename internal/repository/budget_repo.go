package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juju/errors"

	"github.com/andy/oficina/internal/db"
	"github.com/andy/oficina/internal/domain"
)

// BudgetRepo is a SQLite implementation of BudgetRepository
type BudgetRepo struct {
	db *db.DB
}

// NewBudgetRepo creates a new BudgetRepo
func NewBudgetRepo(database *db.DB) *BudgetRepo {
	return &BudgetRepo{db: database}
}

// Create inserts the budget row and all of its lines in one transaction
func (r *BudgetRepo) Create(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (client_id, created_on, total, discount) VALUES (?, ?, ?, ?)`,
			budget.ClientID,
			budget.CreatedAt.Format(dateLayout),
			budget.Total,
			budget.Discount,
		)
		if err != nil {
			return wrapWriteErr("create budget", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get budget ID: %w", err)
		}
		budget.ID = id

		return insertLines(ctx, tx, budget)
	})
}

// Replace overwrites client, totals and the whole line set of an existing
// budget. The creation date is kept.
func (r *BudgetRepo) Replace(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE budgets SET client_id = ?, total = ?, discount = ? WHERE id = ?`,
			budget.ClientID,
			budget.Total,
			budget.Discount,
			budget.ID,
		)
		if err != nil {
			return wrapWriteErr("update budget", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return errors.NotFoundf("budget %d", budget.ID)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_service_lines WHERE budget_id = ?`, budget.ID); err != nil {
			return fmt.Errorf("failed to clear service lines: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_part_lines WHERE budget_id = ?`, budget.ID); err != nil {
			return fmt.Errorf("failed to clear part lines: %w", err)
		}

		return insertLines(ctx, tx, budget)
	})
}

func insertLines(ctx context.Context, q db.Querier, budget *domain.Budget) error {
	for _, line := range budget.ServiceLines {
		result, err := q.ExecContext(ctx,
			`INSERT INTO budget_service_lines (budget_id, service_id, quantity) VALUES (?, ?, ?)`,
			budget.ID, line.Service.ID, line.Quantity,
		)
		if err != nil {
			return wrapWriteErr("create service line", err)
		}
		if line.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get service line ID: %w", err)
		}
		line.BudgetID = budget.ID
	}

	for _, line := range budget.PartLines {
		result, err := q.ExecContext(ctx,
			`INSERT INTO budget_part_lines (budget_id, part_id, quantity) VALUES (?, ?, ?)`,
			budget.ID, line.Part.ID, line.Quantity,
		)
		if err != nil {
			return wrapWriteErr("create part line", err)
		}
		if line.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get part line ID: %w", err)
		}
		line.BudgetID = budget.ID
	}
	return nil
}

// GetByID retrieves a budget with its lines
func (r *BudgetRepo) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	budget, err := scanBudget(r.db.QueryRowContext(ctx,
		`SELECT id, client_id, created_on, total, discount FROM budgets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("budget %d", id)
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if err := r.loadLines(ctx, []*domain.Budget{budget}); err != nil {
		return nil, err
	}
	return budget, nil
}

// ListByIDs retrieves the budgets that exist among ids, ordered by ID
func (r *BudgetRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Budget, error) {
	if len(ids) == 0 {
		return make([]*domain.Budget, 0), nil
	}

	in, args := inClause(ids)
	return r.queryBudgets(ctx,
		`SELECT id, client_id, created_on, total, discount FROM budgets WHERE id IN `+in+` ORDER BY id`,
		args...)
}

// List retrieves every budget ordered by ID
func (r *BudgetRepo) List(ctx context.Context) ([]*domain.Budget, error) {
	return r.queryBudgets(ctx, `SELECT id, client_id, created_on, total, discount FROM budgets ORDER BY id`)
}

// Exists reports whether a budget with id is stored
func (r *BudgetRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM budgets WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check budget: %w", err)
	}
	return exists, nil
}

// Delete removes a budget. Its lines go with it.
func (r *BudgetRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("delete budget", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFoundf("budget %d", id)
	}
	return nil
}

func (r *BudgetRepo) queryBudgets(ctx context.Context, query string, args ...any) ([]*domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	rows.Close()

	if err := r.loadLines(ctx, budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// loadLines fills the service and part lines of every budget, joining the
// catalog for names and current prices
func (r *BudgetRepo) loadLines(ctx context.Context, budgets []*domain.Budget) error {
	if len(budgets) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Budget, len(budgets))
	ids := make([]int64, len(budgets))
	for i, b := range budgets {
		b.ServiceLines = make([]*domain.BudgetServiceLine, 0)
		b.PartLines = make([]*domain.BudgetPartLine, 0)
		byID[b.ID] = b
		ids[i] = b.ID
	}
	in, args := inClause(ids)

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.budget_id, l.quantity, s.id, s.name, s.price
		FROM budget_service_lines l
		JOIN services s ON s.id = l.service_id
		WHERE l.budget_id IN `+in+`
		ORDER BY l.id`, args...)
	if err != nil {
		return fmt.Errorf("failed to load service lines: %w", err)
	}
	for rows.Next() {
		line := &domain.BudgetServiceLine{Service: &domain.Service{}}
		if err := rows.Scan(&line.ID, &line.BudgetID, &line.Quantity,
			&line.Service.ID, &line.Service.Name, &line.Service.Price); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan service line: %w", err)
		}
		b := byID[line.BudgetID]
		b.ServiceLines = append(b.ServiceLines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating service lines: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT l.id, l.budget_id, l.quantity, p.id, p.name, p.price
		FROM budget_part_lines l
		JOIN parts p ON p.id = l.part_id
		WHERE l.budget_id IN `+in+`
		ORDER BY l.id`, args...)
	if err != nil {
		return fmt.Errorf("failed to load part lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		line := &domain.BudgetPartLine{Part: &domain.Part{}}
		if err := rows.Scan(&line.ID, &line.BudgetID, &line.Quantity,
			&line.Part.ID, &line.Part.Name, &line.Part.Price); err != nil {
			return fmt.Errorf("failed to scan part line: %w", err)
		}
		b := byID[line.BudgetID]
		b.PartLines = append(b.PartLines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating part lines: %w", err)
	}
	return nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	b := &domain.Budget{}
	var createdOn string
	if err := row.Scan(&b.ID, &b.ClientID, &createdOn, &b.Total, &b.Discount); err != nil {
		return nil, err
	}
	created, err := time.ParseInLocation(dateLayout, createdOn, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_on: %w", err)
	}
	b.CreatedAt = created
	return b, nil
}
