package domain

import (
	"errors"
	"strings"
)

var ErrInvalidPeriodicity = errors.New("invalid periodicity (must be daily or weekly)")

// Periodicity is the cadence at which a habit is expected to be completed.
// It is fixed at habit creation and never changes afterwards.
type Periodicity string

const (
	PeriodicityDaily  Periodicity = "daily"
	PeriodicityWeekly Periodicity = "weekly"
)

// ParsePeriodicity converts free-form input into one of the two supported
// cadences. Validation happens here, once, so the analytics core can treat
// any other value as a programming error rather than user input.
func ParsePeriodicity(s string) (Periodicity, error) {
	switch Periodicity(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodicityDaily:
		return PeriodicityDaily, nil
	case PeriodicityWeekly:
		return PeriodicityWeekly, nil
	}
	return "", ErrInvalidPeriodicity
}

func (p Periodicity) Valid() bool {
	return p == PeriodicityDaily || p == PeriodicityWeekly
}

func (p Periodicity) String() string {
	return string(p)
}
