package domain

import (
	"errors"
	"time"
)

// DayLayout is the identifier format for per-day documents and cache rows.
const DayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")

// DayOf returns the day identifier of t in t's location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates a day identifier and returns it normalised.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", ErrInvalidDay
	}
	return t.Format(DayLayout), nil
}

// PreviousDay returns the identifier of the day before day. day must be valid.
func PreviousDay(day string) string {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}
