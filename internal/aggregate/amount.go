package aggregate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for non-numeric, non-finite or non-positive amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a user supplied USD amount and validates it.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateAmount accepts positive finite values only.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %v must be positive", ErrInvalidAmount, v)
	}
	return nil
}
