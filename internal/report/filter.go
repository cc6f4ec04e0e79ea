package report

import (
	"fmt"
	"time"

	"pltcm-dashboard/internal/storage"
)

const dayLayout = "2006-01-02"

// ParseDay reads a YYYY-MM-DD prefix; date pickers send full timestamps.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if len(s) < len(dayLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dayLayout, s[:len(dayLayout)], loc)
}

// DateRange is a half-open (Start, End] interval. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange builds a range from optional query values.
func ParseRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := ParseDay(start, loc)
		if err != nil {
			return r, err
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseDay(end, loc)
		if err != nil {
			return r, err
		}
		r.End = &t
	}
	return r, nil
}

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && !t.After(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// FilterCoils keeps coils whose end of rolling lies in r. Without a start
// bound nothing is filtered, which is how the production page has always
// treated a cleared date picker.
func FilterCoils(coils []storage.Coil, r DateRange) []storage.Coil {
	if r.Start == nil {
		return coils
	}

	out := make([]storage.Coil, 0, len(coils))
	for _, c := range coils {
		if c.EndRolling == nil {
			continue
		}
		if r.Contains(*c.EndRolling) {
			out = append(out, c)
		}
	}
	return out
}

// FilterStopDays keeps stops whose Date is within [from, to], both inclusive.
// Empty bounds are open.
func FilterStopDays(stops []storage.StopTime, from, to string) []storage.StopTime {
	if len(from) > len(dayLayout) {
		from = from[:len(dayLayout)]
	}
	if len(to) > len(dayLayout) {
		to = to[:len(dayLayout)]
	}
	if from == "" && to == "" {
		return stops
	}

	out := make([]storage.StopTime, 0, len(stops))
	for _, s := range stops {
		if from != "" && s.Date < from {
			continue
		}
		if to != "" && s.Date > to {
			continue
		}
		out = append(out, s)
	}
	return out
}
