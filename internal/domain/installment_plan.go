package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InstallmentPlan represents an amount split into installments that add up to it exactly
type InstallmentPlan struct {
	ID           uuid.UUID
	Description  string
	Total        Number
	Installments int
	CreatedAt    time.Time
	Entries      []InstallmentEntry
}

// InstallmentEntry is a single installment of a plan
type InstallmentEntry struct {
	ID       uuid.UUID
	PlanID   uuid.UUID
	Sequence int    // 1-based position in the plan
	Amount   Number // same scale as the plan total
	DueDate  time.Time
}

// Validate ensures the plan adheres to domain rules
// CRITICAL: Ensures the sum of all entries equals the plan total exactly
// Every error wraps ErrInvalidPlan
func (p *InstallmentPlan) Validate() error {
	if p.Installments < 2 {
		return fmt.Errorf("%w: must have at least two installments", ErrInvalidPlan)
	}

	if len(p.Entries) != p.Installments {
		return fmt.Errorf("%w: must have %d entries, got %d", ErrInvalidPlan, p.Installments, len(p.Entries))
	}

	sum, err := NewNumber(0, p.Total.Scale())
	if err != nil {
		return err
	}

	for i, entry := range p.Entries {
		if entry.Sequence != i+1 {
			return fmt.Errorf("%w: entry sequence must be %d, got %d", ErrInvalidPlan, i+1, entry.Sequence)
		}

		if entry.Amount.Scale() != p.Total.Scale() {
			return fmt.Errorf("%w: entry amount must have the same scale as the plan total", ErrInvalidPlan)
		}

		if i > 0 && entry.DueDate.Before(p.Entries[i-1].DueDate) {
			return fmt.Errorf("%w: entry %d is due before entry %d", ErrInvalidPlan, entry.Sequence, i)
		}

		sum, err = sum.Add(entry.Amount)
		if err != nil {
			return err
		}
	}

	if !sum.Equal(p.Total) {
		return fmt.Errorf("%w: sum of installments %s must equal plan total %s", ErrInvalidPlan, sum, p.Total)
	}

	return nil
}
