package service

import "time"

// ParseTime accepts RFC3339 or a bare YYYY-MM-DD date. With endOfDay a bare
// date means the last instant of that UTC day, so "to=2024-03-07" covers the
// whole of the 7th.
func ParseTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateKeyLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
