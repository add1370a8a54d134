// Package finance computes installment totals and balances with exact
// decimal arithmetic. Nothing here is persisted; callers recompute on read.
package finance

import (
	"fmt"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of fractional digits kept on money values.
const CurrencyScale int32 = 2

type Totals struct {
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal
	Margin    decimal.Decimal
}

// TotalPaid sums installment amounts. An empty list sums to zero.
func TotalPaid(installments []entity.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

// Balance is salePrice minus TotalPaid. A negative result is an
// overpayment and is returned as-is.
func Balance(salePrice decimal.NullDecimal, installments []entity.Installment) (decimal.Decimal, error) {
	if !salePrice.Valid {
		return decimal.Zero, fmt.Errorf("sale price is required: %w", apperr.ErrInvalidInput)
	}
	return salePrice.Decimal.Sub(TotalPaid(installments)), nil
}

func Summarize(b *entity.Booking) (Totals, error) {
	balance, err := Balance(decimal.NewNullDecimal(b.SalePrice), b.Installments)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		TotalPaid: TotalPaid(b.Installments),
		Balance:   balance,
		Margin:    b.SalePrice.Sub(b.OurCost),
	}, nil
}

// CheckScale rejects amounts with more fractional digits than
// CurrencyScale. The database would round them silently.
func CheckScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(CurrencyScale)) {
		return fmt.Errorf("%s must have at most %d decimal places: %w", field, CurrencyScale, apperr.ErrInvalidInput)
	}
	return nil
}

// ValidateAmounts enforces positive prices, positive installments, and
// installments that do not exceed the sale price. Every amount must fit
// CurrencyScale.
func ValidateAmounts(ourCost, salePrice decimal.Decimal, installments []entity.Installment) error {
	if !ourCost.IsPositive() {
		return fmt.Errorf("our_cost must be greater than 0: %w", apperr.ErrInvalidInput)
	}
	if err := CheckScale("our_cost", ourCost); err != nil {
		return err
	}
	if !salePrice.IsPositive() {
		return fmt.Errorf("sale_price must be greater than 0: %w", apperr.ErrInvalidInput)
	}
	if err := CheckScale("sale_price", salePrice); err != nil {
		return err
	}
	for i, inst := range installments {
		if !inst.Amount.IsPositive() {
			return fmt.Errorf("installment %d amount must be greater than 0: %w", i+1, apperr.ErrInvalidInput)
		}
		if err := CheckScale(fmt.Sprintf("installment %d amount", i+1), inst.Amount); err != nil {
			return err
		}
	}
	if paid := TotalPaid(installments); paid.GreaterThan(salePrice) {
		return fmt.Errorf("installments total %s exceeds sale price %s: %w",
			paid.StringFixed(CurrencyScale), salePrice.StringFixed(CurrencyScale), apperr.ErrInvalidInput)
	}
	return nil
}
