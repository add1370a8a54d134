package utils

import (
	"time"

	"github.com/jinzhu/now"
)

// DaysBack returns the start of the day n days before t.
func DaysBack(t time.Time, days int) time.Time {
	return now.With(t.AddDate(0, 0, -days)).BeginningOfDay()
}

// ParseDateRange turns optional YYYY-MM-DD bounds into an inclusive
// [start of from, end of to] range. Empty bounds stay nil.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return nil, nil, err
		}
		s := now.With(t).BeginningOfDay()
		start = &s
	}

	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return nil, nil, err
		}
		e := now.With(t).EndOfDay()
		end = &e
	}

	return start, end, nil
}
