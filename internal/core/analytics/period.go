// Package analytics holds the pure streak engine: mapping completion
// timestamps to calendar buckets, generating expected bucket sequences,
// and measuring runs of consecutive completed buckets. Nothing in this
// package performs I/O, caches results, or mutates its inputs.
package analytics

import (
	"fmt"
	"time"

	"github.com/mfranzen/cadence/internal/core/domain"
)

const dailyKeyLayout = "2006-01-02"

// PeriodKey maps a timestamp to the canonical identifier of the calendar
// bucket containing it: YYYY-MM-DD for daily habits, ISO-8601 YYYY-WW for
// weekly ones. Two timestamps share a key iff they fall in the same
// bucket. Near year boundaries the ISO year of a weekly key can differ
// from the calendar year (late December dates may belong to week 1 of the
// following ISO year, early January dates to the last week of the
// previous one).
func PeriodKey(t time.Time, p domain.Periodicity) (string, error) {
	switch p {
	case domain.PeriodicityDaily:
		return t.Format(dailyKeyLayout), nil
	case domain.PeriodicityWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-%02d", year, week), nil
	}
	return "", domain.ErrInvalidPeriodicity
}

// PeriodSequence generates every expected bucket key between start and
// end inclusive, in chronological order. Argument order does not matter;
// the pair is swapped when start is later than end. The result is the
// ground truth for which buckets should have been completed: any key
// absent from a habit's completed set breaks its streak.
//
// For weekly periodicity the cursor is first rewound to the Monday
// opening start's ISO week (which may precede start itself), then
// advanced in 7-day steps, so exactly one key is emitted per week with no
// duplicates and no gaps.
func PeriodSequence(start, end time.Time, p domain.Periodicity) ([]string, error) {
	if start.After(end) {
		start, end = end, start
	}

	switch p {
	case domain.PeriodicityDaily:
		cur := truncateToDay(start)
		last := truncateToDay(end)

		var keys []string
		for !cur.After(last) {
			keys = append(keys, cur.Format(dailyKeyLayout))
			cur = cur.AddDate(0, 0, 1)
		}
		return keys, nil

	case domain.PeriodicityWeekly:
		cur := startOfISOWeek(start)

		var keys []string
		for !cur.After(end) {
			year, week := cur.ISOWeek()
			keys = append(keys, fmt.Sprintf("%04d-%02d", year, week))
			cur = cur.AddDate(0, 0, 7)
		}
		return keys, nil
	}

	return nil, domain.ErrInvalidPeriodicity
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// startOfISOWeek rewinds t to the Monday of its ISO week, keeping the
// clock time so a start==end pair still yields exactly one key.
func startOfISOWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
