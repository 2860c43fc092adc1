// Package analytics derives dashboard statistics from a set of material
// records. Everything here is a pure transform over an in-memory slice: no
// I/O, no mutation of the input, and no failure mode beyond returning zeros
// for an empty set.
package analytics

import (
	"fmt"
	"time"

	"codeberg.org/weconnect/server/weconnect/materials"
)

// selects how far back the dashboard looks
type TimeRange string

const (
	Range7Days  TimeRange = "7d"
	Range30Days TimeRange = "30d"
	Range90Days TimeRange = "90d"
	RangeAll    TimeRange = "all"
)

// aggregate totals over the range-filtered record set
type SummaryStats struct {
	Count     int64   `json:"count"`
	Diamonds  int64   `json:"diamonds"`
	Earnings  float64 `json:"earnings"`
	Views     int64   `json:"views"`
	Downloads int64   `json:"downloads"`
}

// one calendar-day slot in the derived time series
type Bucket struct {
	Label    string    `json:"label"` // short month/day, e.g. "Mar 5"
	Date     time.Time `json:"date"`
	Diamonds int64     `json:"diamonds"`
	Earnings float64   `json:"earnings"`
}

// parses a range string from a query parameter
func ParseRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case Range7Days, Range30Days, Range90Days, RangeAll:
		return TimeRange(s), nil
	case "":
		return RangeAll, nil
	default:
		return "", fmt.Errorf("invalid time range %q", s)
	}
}

// returns the number of calendar-day buckets the series uses for this range.
// all-time still charts a 90-day window by convention; its summary uses the
// full unfiltered set.
func (r TimeRange) BucketCount() int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	default:
		return 90
	}
}

// returns the earliest instant included by the range, and whether a cutoff
// applies at all (RangeAll has none)
func (r TimeRange) Cutoff(now time.Time) (time.Time, bool) {
	switch r {
	case Range7Days:
		return now.AddDate(0, 0, -7), true
	case Range30Days:
		return now.AddDate(0, 0, -30), true
	case Range90Days:
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}

// keeps the records whose creation instant is at or after the range cutoff.
// The comparison is on absolute instants; series bucketing below compares
// calendar days instead. The two can disagree for a record right at the
// cutoff boundary; that mismatch is intentional (see
// TestBoundaryMismatchPreserved).
func FilterByRange(records []materials.MaterialRecord, r TimeRange, now time.Time) []materials.MaterialRecord {
	cutoff, ok := r.Cutoff(now)
	if !ok {
		return records
	}

	filtered := make([]materials.MaterialRecord, 0, len(records))

	for _, rec := range records {
		if !rec.CreatedAt.Before(cutoff) {
			filtered = append(filtered, rec)
		}
	}

	return filtered
}

// computes totals over the range-filtered record set in a single pass.
// An empty set yields all zeros, never an error.
func Summarize(records []materials.MaterialRecord, r TimeRange, now time.Time) SummaryStats {
	var stats SummaryStats

	for _, rec := range FilterByRange(records, r, now) {
		stats.Count++
		stats.Diamonds += rec.Diamonds
		stats.Earnings += rec.Earnings
		stats.Views += rec.Views
		stats.Downloads += rec.Downloads
	}

	return stats
}

// builds the per-day diamond/earnings series for the range: BucketCount
// consecutive local calendar days ending today, oldest first. Membership is
// same-calendar-day in local time, computed over the already range-filtered
// set. O(buckets x records) is fine at the expected scale (a single user's
// uploads, low thousands).
func DailySeries(records []materials.MaterialRecord, r TimeRange, now time.Time) []Bucket {
	filtered := FilterByRange(records, r, now)

	n := r.BucketCount()
	today := now.Local()
	buckets := make([]Bucket, 0, n)

	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)

		bucket := Bucket{
			Label: day.Format("Jan 2"),
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
		}

		for _, rec := range filtered {
			if sameDay(rec.CreatedAt, day) {
				bucket.Diamonds += rec.Diamonds
				bucket.Earnings += rec.Earnings
			}
		}

		buckets = append(buckets, bucket)
	}

	return buckets
}

// compares local calendar dates, ignoring the time of day
func sameDay(a, b time.Time) bool {
	al, bl := a.Local(), b.Local()
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}
