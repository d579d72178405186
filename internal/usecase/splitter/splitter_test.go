package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sdl-backend/internal/domain"
)

func TestCalculateInstallments_HundredInThree(t *testing.T) {
	// 100.00 in 3 installments: the leftover cent goes to the first installment
	total := domain.MustNumber(100, 2)

	amounts, err := CalculateInstallments(total, 3)

	require.NoError(t, err)
	require.Len(t, amounts, 3)
	assert.Equal(t, "33.34", amounts[0].String())
	assert.Equal(t, "33.33", amounts[1].String())
	assert.Equal(t, "33.33", amounts[2].String())
}

func TestCalculateInstallments_EvenSplit(t *testing.T) {
	total := domain.MustNumber("1200", 2)

	amounts, err := CalculateInstallments(total, 12)

	require.NoError(t, err)
	require.Len(t, amounts, 12)
	for _, amount := range amounts {
		assert.Equal(t, "100.00", amount.String())
	}
}

func TestCalculateInstallments_NoCentLost(t *testing.T) {
	totals := []string{"0.01", "15.80", "999.99", "1234567.89", "-250.75"}

	for _, value := range totals {
		total := domain.MustNumber(value, 2)

		for installments := 2; installments < 50; installments++ {
			amounts, err := CalculateInstallments(total, installments)
			require.NoError(t, err)
			require.Len(t, amounts, installments)

			sum := domain.MustNumber(0, 2)
			for _, amount := range amounts {
				sum, err = sum.Add(amount)
				require.NoError(t, err)
			}
			assert.Equal(t, total.String(), sum.String(), "total=%s installments=%d", value, installments)
		}
	}
}

func TestCalculateInstallments_ZeroDecimalCurrency(t *testing.T) {
	// Scale 0, e.g. Japanese Yen
	total := domain.MustNumber(1000, 0)

	amounts, err := CalculateInstallments(total, 3)

	require.NoError(t, err)
	assert.Equal(t, "334", amounts[0].String())
	assert.Equal(t, "333", amounts[1].String())
	assert.Equal(t, "333", amounts[2].String())
}

func TestCalculateInstallments_InvalidInstallments(t *testing.T) {
	_, err := CalculateInstallments(domain.MustNumber(200, 2), 1)

	assert.Error(t, err)
	assert.True(t, domain.IsArithmeticError(err))
	assert.Contains(t, err.Error(), "Cannot split 200.00 by 1")
}

func TestCalculateInstallments_TooManyInstallments(t *testing.T) {
	amounts, err := CalculateInstallments(domain.MustNumber(100, 2), 2_000_000_000)

	assert.Nil(t, amounts)
	assert.ErrorIs(t, err, ErrTooManyInstallments)
	assert.Contains(t, err.Error(), "2000000000 given, at most 600 allowed")
}

func TestCalculateInstallments_MaxInstallments(t *testing.T) {
	// 100000 cents / 600 = 166 remainder 400
	amounts, err := CalculateInstallments(domain.MustNumber("1000.00", 2), MaxInstallments)

	require.NoError(t, err)
	require.Len(t, amounts, MaxInstallments)
	assert.Equal(t, "5.66", amounts[0].String())
	assert.Equal(t, "1.66", amounts[1].String())
}
