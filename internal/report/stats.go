package report

import (
	"cmp"
	"math"
	"slices"
)

// GroupStats is the per-group summary shown in the dashboard tables.
type GroupStats[K cmp.Ordered] struct {
	Key   K       `json:"key"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

// Describe groups rows by key and summarizes value per group. Groups are
// sorted by key and every figure is rounded to two decimals.
func Describe[T any, K cmp.Ordered](rows []T, key func(T) K, value func(T) float64) []GroupStats[K] {
	groups := make(map[K]*GroupStats[K])
	var order []K

	for _, r := range rows {
		k := key(r)
		v := value(r)

		g, ok := groups[k]
		if !ok {
			g = &GroupStats[K]{Key: k, Min: v, Max: v}
			groups[k] = g
			order = append(order, k)
		}
		g.Count++
		g.Sum += v
		g.Min = math.Min(g.Min, v)
		g.Max = math.Max(g.Max, v)
	}

	slices.Sort(order)

	out := make([]GroupStats[K], 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.Mean = Round2(g.Sum / float64(g.Count))
		g.Sum = Round2(g.Sum)
		g.Min = Round2(g.Min)
		g.Max = Round2(g.Max)
		out = append(out, *g)
	}
	return out
}

func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
