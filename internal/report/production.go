package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"pltcm-dashboard/internal/storage"
)

type Indicators struct {
	CoilCount int   `json:"coil_count"`
	TotalTons int64 `json:"total_weight_t"`
	KgPerCoil int64 `json:"tonnage_per_coil_kg"`
}

func ProductionIndicators(coils []storage.Coil) Indicators {
	var sum float64
	for _, c := range coils {
		sum += c.ExitWeight
	}

	ind := Indicators{
		CoilCount: len(coils),
		TotalTons: int64(math.Floor(sum / 1000)),
	}
	if len(coils) > 0 {
		ind.KgPerCoil = int64(math.Floor(sum / float64(len(coils))))
	}
	return ind
}

func exitWeight(c storage.Coil) float64 { return c.ExitWeight }

func AlloyStats(coils []storage.Coil) []GroupStats[string] {
	return Describe(coils, func(c storage.Coil) string { return c.AlloyCode }, exitWeight)
}

func WidthStats(coils []storage.Coil) []GroupStats[float64] {
	return Describe(coils, func(c storage.Coil) float64 { return c.EntryWidth }, exitWeight)
}

func ThicknessStats(coils []storage.Coil) []GroupStats[float64] {
	return Describe(coils, func(c storage.Coil) float64 { return c.ExitThick }, exitWeight)
}

// Default band of the exit thickness slider, in mm.
const (
	ThicknessMin = 0.0
	ThicknessMax = 3.0
)

var ErrBadBand = errors.New("invalid thickness band")

// ParseBand reads the min and max query values of the thickness slider.
// Empty values keep the default band.
func ParseBand(minValue, maxValue string) (float64, float64, error) {
	lo, hi := ThicknessMin, ThicknessMax
	var err error
	if minValue != "" {
		if lo, err = strconv.ParseFloat(minValue, 64); err != nil {
			return 0, 0, errors.Join(ErrBadBand, err)
		}
	}
	if maxValue != "" {
		if hi, err = strconv.ParseFloat(maxValue, 64); err != nil {
			return 0, 0, errors.Join(ErrBadBand, err)
		}
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: min %g greater than max %g", ErrBadBand, lo, hi)
	}
	return lo, hi, nil
}

// ThicknessBand keeps thickness groups with lo <= key <= hi.
func ThicknessBand(stats []GroupStats[float64], lo, hi float64) []GroupStats[float64] {
	out := make([]GroupStats[float64], 0, len(stats))
	for _, s := range stats {
		if s.Key >= lo && s.Key <= hi {
			out = append(out, s)
		}
	}
	return out
}

type Period string

const (
	PeriodAll   Period = "A"
	PeriodDay   Period = "D"
	PeriodWeek  Period = "W"
	PeriodMonth Period = "M"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s), nil
	case "W-MON":
		return PeriodWeek, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

type TrendPoint struct {
	Period string  `json:"period"`
	Coils  int     `json:"coils"`
	Tons   float64 `json:"tons"`
}

// Trend buckets coils by end of rolling. Weeks start on Monday and are
// labelled by that Monday. Coils still on the line are skipped unless the
// period is PeriodAll.
func Trend(coils []storage.Coil, p Period) []TrendPoint {
	stats := Describe(
		coils,
		func(c storage.Coil) string { return bucket(c.EndRolling, p) },
		exitWeight,
	)

	out := make([]TrendPoint, 0, len(stats))
	for _, s := range stats {
		if s.Key == "" {
			continue
		}
		out = append(out, TrendPoint{Period: s.Key, Coils: s.Count, Tons: Round2(s.Sum / 1000)})
	}
	return out
}

func bucket(t *time.Time, p Period) string {
	if p == PeriodAll {
		return "all"
	}
	if t == nil {
		return ""
	}
	switch p {
	case PeriodDay:
		return t.Format(dayLayout)
	case PeriodWeek:
		offset := (int(t.Weekday()) + 6) % 7
		monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
		return monday.Format(dayLayout)
	case PeriodMonth:
		return t.Format("2006-01")
	}
	return ""
}
