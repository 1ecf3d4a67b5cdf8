package kernel

import (
	"fmt"
	"strings"

	"orderops/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates the amount and upper-cases the ISO currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"currency",
			fmt.Errorf("%q is not an ISO 4217 code", currency),
		)
	}

	return Money{amount: amount, currency: currency}, nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// String renders the amount with two decimals followed by the currency code.
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

func (m Money) IsZero() bool {
	return m.currency == "" && m.amount.IsZero()
}
