package splitter

import (
	"errors"
	"fmt"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// MaxInstallments is the largest number of installments one split may expand into
// (fifty years of monthly payments)
const MaxInstallments = 600

// ErrTooManyInstallments is returned when a split would exceed MaxInstallments
var ErrTooManyInstallments = errors.New("too many installments")

// CalculateInstallments splits a total into the given number of installments
// Returns one amount per installment, in payment order
// Logic:
//  1. Ask the Number for its exact split (one remainder-bearing group, one even group)
//  2. Expand every group into Count consecutive installments, remainder group first
//  3. Re-add all installments and compare with the total
//
// Safety: Ensures the installments add up to the total exactly (no cent lost)
func CalculateInstallments(total domain.Number, installments int) ([]domain.Number, error) {
	if installments > MaxInstallments {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyInstallments, installments, MaxInstallments)
	}

	groups, err := total.Split(installments)
	if err != nil {
		return nil, err
	}

	amounts := make([]domain.Number, 0, installments)
	for _, group := range groups {
		for i := 0; i < group.Count; i++ {
			amounts = append(amounts, group.Amount)
		}
	}

	if len(amounts) != installments {
		return nil, errors.New("split produced a wrong number of installments")
	}

	// Safety check: Ensure the installments add up to the total exactly
	sum, err := domain.NewNumber(0, total.Scale())
	if err != nil {
		return nil, err
	}
	for _, amount := range amounts {
		sum, err = sum.Add(amount)
		if err != nil {
			return nil, err
		}
	}

	if !sum.Equal(total) {
		return nil, errors.New("total of installments does not equal total amount")
	}

	return amounts, nil
}
