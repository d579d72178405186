package installment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/sdl-backend/internal/domain"
	"github.com/simaogato/sdl-backend/internal/usecase/splitter"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ErrInvalidPagination is wrapped by ListPlans paging errors
var ErrInvalidPagination = errors.New("invalid pagination")

// CreatePlanInput represents the input for creating an installment plan
type CreatePlanInput struct {
	Amount       string // numeral or arithmetic expression
	Scale        int32
	Installments int
	Description  string
	FirstDueDate time.Time // zero means one month after creation
}

// InstallmentService handles installment plan operations
type InstallmentService struct {
	PlanRepo domain.InstallmentPlanRepository
}

// NewInstallmentService creates a new InstallmentService instance
func NewInstallmentService(planRepo domain.InstallmentPlanRepository) *InstallmentService {
	return &InstallmentService{
		PlanRepo: planRepo,
	}
}

// CreatePlan splits an amount into installments and stores the plan
// Logic:
//  1. Evaluate the amount at the requested scale
//  2. Call splitter.CalculateInstallments to get one amount per installment
//  3. Build the plan with one entry per installment (sequence 1..n),
//     due monthly from the first due date (clamped to short months)
//  4. Validate the plan (sum must equal the total) and save it
func (s *InstallmentService) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.InstallmentPlan, error) {
	// Checked before anything is allocated per installment
	if input.Installments > splitter.MaxInstallments {
		return nil, fmt.Errorf("%w: must have at most %d installments, got %d", domain.ErrInvalidPlan, splitter.MaxInstallments, input.Installments)
	}

	total, err := domain.NewNumber(input.Amount, input.Scale)
	if err != nil {
		return nil, err
	}

	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidPlan)
	}

	amounts, err := splitter.CalculateInstallments(total, input.Installments)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	firstDueDate := input.FirstDueDate
	if firstDueDate.IsZero() {
		firstDueDate = domain.AddMonths(truncateToDay(createdAt), 1)
	}
	dueDates := domain.DueDates(truncateToDay(firstDueDate), len(amounts))

	planID := uuid.New()
	entries := make([]domain.InstallmentEntry, 0, len(amounts))
	for i, amount := range amounts {
		entries = append(entries, domain.InstallmentEntry{
			ID:       uuid.New(),
			PlanID:   planID,
			Sequence: i + 1,
			Amount:   amount,
			DueDate:  dueDates[i],
		})
	}

	plan := &domain.InstallmentPlan{
		ID:           planID,
		Description:  input.Description,
		Total:        total,
		Installments: input.Installments,
		CreatedAt:    createdAt,
		Entries:      entries,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// GetPlan retrieves a stored plan by its ID
func (s *InstallmentService) GetPlan(ctx context.Context, id uuid.UUID) (*domain.InstallmentPlan, error) {
	return s.PlanRepo.GetByID(ctx, id)
}

// ListPlans retrieves a page of stored plans
// A non-positive limit falls back to the default page size; limit is capped at maxListLimit
func (s *InstallmentService) ListPlans(ctx context.Context, limit, offset int) ([]*domain.InstallmentPlan, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidPagination)
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.PlanRepo.List(ctx, limit, offset)
}

// truncateToDay drops the clock, keeping the calendar date in UTC
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
