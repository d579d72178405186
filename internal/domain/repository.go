package domain

import (
	"context"

	"github.com/google/uuid"
)

// InstallmentPlanRepository defines the interface for installment plan persistence operations
type InstallmentPlanRepository interface {
	// Create stores a plan together with all its entries
	Create(ctx context.Context, plan *InstallmentPlan) error

	// GetByID retrieves a plan and its entries ordered by sequence
	GetByID(ctx context.Context, id uuid.UUID) (*InstallmentPlan, error)

	// List retrieves a page of plans, newest first
	// limit and offset are used for pagination
	List(ctx context.Context, limit, offset int) ([]*InstallmentPlan, error)
}
