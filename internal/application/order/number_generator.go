package order

import (
	"context"
	"time"

	"github.com/pantryfresh/backend/internal/domain/order"
)

// NumberGenerator hands out PF-<year>-<seq> order numbers.
// It reads the year's greatest stored number, so two concurrent callers can
// compute the same number; the unique order_number index rejects the loser.
type NumberGenerator struct {
	location *time.Location
}

// NewNumberGenerator creates a generator that takes the year in loc (UTC when nil)
func NewNumberGenerator(loc *time.Location) *NumberGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &NumberGenerator{location: loc}
}

// Next returns the number following the greatest one stored for now's year
func (g *NumberGenerator) Next(ctx context.Context, orders order.Repository, now time.Time) (string, error) {
	year := now.In(g.location).Year()
	last, err := orders.LastOrderNumberForYear(ctx, year)
	if err != nil {
		return "", err
	}
	return order.NextOrderNumber(year, last)
}
