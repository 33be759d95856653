package service

import (
	"sort"
	"time"
)

// DateKeyLayout is the calendar-day key used by every daily series.
const DateKeyLayout = "2006-01-02"

// DateBucket is the combined value of one UTC day, keyed by DateKeyLayout.
type DateBucket[V any] struct {
	Date  string
	Value V
}

// GroupByUTCDate folds records into one bucket per UTC calendar day of
// dateOf(record), combining values with add. Buckets come back in ascending
// date order and days without records are absent.
func GroupByUTCDate[R, V any](records []R, dateOf func(R) time.Time, valueOf func(R) V, add func(V, V) V) []DateBucket[V] {
	index := make(map[string]int, len(records))
	buckets := make([]DateBucket[V], 0)

	for _, rec := range records {
		key := dateOf(rec).UTC().Format(DateKeyLayout)
		if i, ok := index[key]; ok {
			buckets[i].Value = add(buckets[i].Value, valueOf(rec))
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, DateBucket[V]{Date: key, Value: valueOf(rec)})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}
