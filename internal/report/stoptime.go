package report

import (
	"math"

	"pltcm-dashboard/internal/storage"
)

// PlantTotals are total delay minutes per plant, rounded up.
type PlantTotals struct {
	PL    float64 `json:"pl_min"`
	TCM   float64 `json:"tcm_min"`
	PLTCM float64 `json:"pltcm_min"`
}

func StopPlantTotals(stops []storage.StopTime) PlantTotals {
	sums := make(map[int]float64, 3)
	for _, s := range stops {
		sums[s.Plant] += s.Duration
	}

	// a plant without events in the range reports zero
	return PlantTotals{
		PL:    math.Ceil(sums[storage.PlantPL]),
		TCM:   math.Ceil(sums[storage.PlantTCM]),
		PLTCM: math.Ceil(sums[storage.PlantPLTCM]),
	}
}

// DailyDelay summarizes stop durations per calendar day.
func DailyDelay(stops []storage.StopTime) []GroupStats[string] {
	return Describe(
		stops,
		func(s storage.StopTime) string { return s.Date },
		func(s storage.StopTime) float64 { return s.Duration },
	)
}

// PlantDelay summarizes stop durations per plant id.
func PlantDelay(stops []storage.StopTime) []GroupStats[int] {
	return Describe(
		stops,
		func(s storage.StopTime) int { return s.Plant },
		func(s storage.StopTime) float64 { return s.Duration },
	)
}
