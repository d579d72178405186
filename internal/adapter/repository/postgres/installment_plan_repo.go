package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// dateLayout is how due dates are sent to DATE columns
const dateLayout = "2006-01-02"

// installmentPlanRepository implements domain.InstallmentPlanRepository
type installmentPlanRepository struct {
	db *DB
}

// NewInstallmentPlanRepository creates a new installment plan repository
func NewInstallmentPlanRepository(db *DB) domain.InstallmentPlanRepository {
	return &installmentPlanRepository{db: db}
}

// Create stores a plan with all its entries in a database transaction
func (r *installmentPlanRepository) Create(ctx context.Context, plan *domain.InstallmentPlan) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertPlanQuery := `
		INSERT INTO installment_plans (id, description, total, scale, installments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = dbTx.ExecContext(ctx, insertPlanQuery,
		plan.ID,
		plan.Description,
		plan.Total.String(),
		plan.Total.Scale(),
		plan.Installments,
		plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert installment plan: %w", err)
	}

	insertEntryQuery := `
		INSERT INTO installment_entries (id, plan_id, sequence, amount, due_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, entry := range plan.Entries {
		_, err = dbTx.ExecContext(ctx, insertEntryQuery,
			entry.ID,
			entry.PlanID,
			entry.Sequence,
			entry.Amount.String(),
			entry.DueDate.Format(dateLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment entry: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a plan and its entries
func (r *installmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InstallmentPlan, error) {
	query := `
		SELECT id, description, total, scale, installments, created_at
		FROM installment_plans
		WHERE id = $1
	`

	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, id)
		}
		return nil, err
	}

	if err := r.loadEntries(ctx, []*domain.InstallmentPlan{plan}); err != nil {
		return nil, err
	}

	return plan, nil
}

// List retrieves a page of plans, newest first
func (r *installmentPlanRepository) List(ctx context.Context, limit, offset int) ([]*domain.InstallmentPlan, error) {
	query := `
		SELECT id, description, total, scale, installments, created_at
		FROM installment_plans
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query installment plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.InstallmentPlan, 0, limit)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment plans: %w", err)
	}

	if err := r.loadEntries(ctx, plans); err != nil {
		return nil, err
	}

	return plans, nil
}

// loadEntries fetches the entries of all given plans in one query
func (r *installmentPlanRepository) loadEntries(ctx context.Context, plans []*domain.InstallmentPlan) error {
	if len(plans) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.InstallmentPlan, len(plans))
	ids := make([]string, 0, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
		ids = append(ids, plan.ID.String())
	}

	query := `
		SELECT id, plan_id, sequence, amount, due_date
		FROM installment_entries
		WHERE plan_id = ANY($1::uuid[])
		ORDER BY plan_id, sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query installment entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.InstallmentEntry
		var amountStr string
		var dueDate time.Time

		if err := rows.Scan(&entry.ID, &entry.PlanID, &entry.Sequence, &amountStr, &dueDate); err != nil {
			return fmt.Errorf("failed to scan installment entry: %w", err)
		}

		plan, ok := byID[entry.PlanID]
		if !ok {
			continue
		}

		// Parse amount (NUMERIC) at the plan scale
		amount, err := domain.NewNumber(amountStr, plan.Total.Scale())
		if err != nil {
			return fmt.Errorf("failed to parse installment entry amount: %w", err)
		}
		entry.Amount = amount
		entry.DueDate = time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)

		plan.Entries = append(plan.Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating installment entries: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*domain.InstallmentPlan, error) {
	var plan domain.InstallmentPlan
	var totalStr string
	var scale int32

	err := row.Scan(
		&plan.ID,
		&plan.Description,
		&totalStr,
		&scale,
		&plan.Installments,
		&plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan installment plan: %w", err)
	}

	total, err := domain.NewNumber(totalStr, scale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse installment plan total: %w", err)
	}
	plan.Total = total

	return &plan, nil
}
