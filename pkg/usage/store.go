package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

var (
	ErrEmptyVisitor = errors.New("empty visitor id")
	ErrStoreFailure = errors.New("usage store failure")
)

// Store keeps per-visitor daily counters for anonymous viewers.
// A day is a calendar date; its location is chosen by the caller.
type Store interface {
	Get(ctx context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error)
	Increment(ctx context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error)
}

// DayKey formats the calendar date of day as YYYY-MM-DD in day's location.
func DayKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

func validate(visitor string, t subscription.UsageType) error {
	if visitor == "" {
		return ErrEmptyVisitor
	}
	if _, ok := subscription.ParseUsageType(string(t)); !ok {
		return fmt.Errorf("%w: %q", subscription.ErrUnknownUsageType, t)
	}
	return nil
}
