// Package engine implements the inventory consistency computations: expiry
// classification, reorder evaluation, stock aggregation, batch code
// generation, and the cross-cutting validation invoked before mutations.
// Everything here is pure; the store and transport live elsewhere.
package engine

import "time"

// ExpiryStatus classifies a stock batch relative to its expiry date.
type ExpiryStatus string

const (
	StatusExpired      ExpiryStatus = "expired"
	StatusExpiringSoon ExpiryStatus = "expiring_soon"
	StatusGood         ExpiryStatus = "good"
)

// ExpirySoonWindowDays is the reporting contract for "expiring soon": a batch
// whose expiry falls within this many days, inclusive, is flagged. External
// reporting depends on the exact value.
const ExpirySoonWindowDays = 30

// DaysUntilExpiry returns the number of whole calendar days between asOf and
// the expiry date. Negative once the expiry date has passed. Time-of-day is
// ignored on both sides.
func DaysUntilExpiry(expiry, asOf time.Time) int {
	return int(toDate(expiry).Sub(toDate(asOf)).Hours() / 24)
}

// ClassifyExpiry maps a batch expiry date and a reference date to a status.
// Day 30 is still expiring-soon; day 31 is good. The result must be
// recomputed on every read since it changes with the calendar.
func ClassifyExpiry(expiry, asOf time.Time) ExpiryStatus {
	days := DaysUntilExpiry(expiry, asOf)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpirySoonWindowDays:
		return StatusExpiringSoon
	default:
		return StatusGood
	}
}

// IsExpired reports whether the batch is past its expiry date as of asOf.
func IsExpired(expiry, asOf time.Time) bool {
	return DaysUntilExpiry(expiry, asOf) < 0
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
