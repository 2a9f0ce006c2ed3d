package order

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pantryfresh/backend/internal/domain/shared"
)

const (
	// NumberPrefix starts every order number
	NumberPrefix = "PF"

	// MaxSequence is the largest per-year sequence a 6 digit number can hold
	MaxSequence = 999999
)

var numberPattern = regexp.MustCompile(`^PF-(\d{4})-(\d{6})$`)

// YearPrefix returns the prefix shared by all order numbers of a year, e.g. "PF-2024-"
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", NumberPrefix, year)
}

// FormatOrderNumber builds an order number such as PF-2024-000001
func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("%s%06d", YearPrefix(year), seq)
}

// ParseOrderNumber splits an order number into year and sequence
func ParseOrderNumber(s string) (year, seq int, err error) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, shared.NewValidationError("INVALID_ORDER_NUMBER", fmt.Sprintf("Malformed order number: %q", s))
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// NextOrderNumber returns the number following last within year.
// An empty last starts the year at sequence 1.
func NextOrderNumber(year int, last string) (string, error) {
	if last == "" {
		return FormatOrderNumber(year, 1), nil
	}
	lastYear, seq, err := ParseOrderNumber(last)
	if err != nil {
		return "", err
	}
	if lastYear != year {
		return "", shared.NewValidationError("INVALID_ORDER_NUMBER",
			fmt.Sprintf("Order number %s does not belong to year %d", last, year))
	}
	if seq >= MaxSequence {
		return "", shared.NewConflictError("ORDER_SEQUENCE_EXHAUSTED",
			fmt.Sprintf("Order number sequence for %d is exhausted", year))
	}
	return FormatOrderNumber(year, seq+1), nil
}
