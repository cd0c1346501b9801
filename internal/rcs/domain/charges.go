package domain

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// amountPattern is the Open Banking amount format: up to 13 integer digits
// and up to 5 fraction digits, no sign or exponent.
var amountPattern = regexp.MustCompile(`^\d{1,13}(\.\d{1,5})?$`)

var (
	ErrMixedChargeCurrency = errors.New("domain: charges use more than one currency")
	ErrInvalidAmount       = errors.New("domain: invalid amount")
)

// TotalCharges sums the charge amounts. All charges must share one currency.
// Returns nil when there are no charges.
func TotalCharges(charges []Charge) (*Amount, error) {
	if len(charges) == 0 {
		return nil, nil
	}

	currency := charges[0].Amount.Currency
	total := new(big.Rat)
	scale := 0

	for _, c := range charges {
		if c.Amount.Currency != currency {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedChargeCurrency, currency, c.Amount.Currency)
		}
		if !amountPattern.MatchString(c.Amount.Amount) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, c.Amount.Amount)
		}
		r, ok := new(big.Rat).SetString(c.Amount.Amount)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, c.Amount.Amount)
		}
		total.Add(total, r)
		if i := strings.IndexByte(c.Amount.Amount, '.'); i >= 0 {
			scale = max(scale, len(c.Amount.Amount)-i-1)
		}
	}

	return &Amount{Amount: total.FloatString(scale), Currency: currency}, nil
}
