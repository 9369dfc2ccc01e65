package services

import (
	"fmt"
	"strings"

	"github.com/quadrahub/arena-system/models"
)

const (
	taxIDLenCPF  = 11
	taxIDLenCNPJ = 14
)

// digitsOnly strips everything but 0-9 from s.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// ValidateCustomerTaxID extracts the tax identifier from whichever record
// shape the customer carries, normalizes it to bare digits and applies the
// pre-checks the gateway would reject anyway: presence, CPF/CNPJ length, and
// the ten canonical all-same-digit CPF sequences. It is a cheap gate, not a
// full check-digit algorithm, and must run before any remote customer is
// created. The simulated payment path never calls it.
func ValidateCustomerTaxID(c models.Customer) (string, error) {
	normalized := digitsOnly(c.RawTaxID())
	if normalized == "" {
		return "", ErrTaxIDMissing
	}
	if len(normalized) != taxIDLenCPF && len(normalized) != taxIDLenCNPJ {
		return "", fmt.Errorf("%w: got %d digits", ErrTaxIDLength, len(normalized))
	}
	if len(normalized) == taxIDLenCPF && allSameDigits(normalized) {
		return "", ErrTaxIDInvalid
	}
	return normalized, nil
}
