package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	group string
	v     float64
}

func TestDescribe(t *testing.T) {
	rows := []sample{
		{"b", 1}, {"a", 2}, {"b", 2}, {"a", 4}, {"b", 4.5}, {"c", 1.004},
	}

	got := Describe(rows, func(s sample) string { return s.group }, func(s sample) float64 { return s.v })

	want := []GroupStats[string]{
		{Key: "a", Count: 2, Mean: 3, Min: 2, Max: 4, Sum: 6},
		{Key: "b", Count: 3, Mean: 2.5, Min: 1, Max: 4.5, Sum: 7.5},
		{Key: "c", Count: 1, Mean: 1, Min: 1, Max: 1, Sum: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_MeanRounded(t *testing.T) {
	rows := []sample{{"x", 1}, {"x", 1}, {"x", 2}}

	got := Describe(rows, func(s sample) string { return s.group }, func(s sample) float64 { return s.v })

	assert.Equal(t, 1.33, got[0].Mean)
}

func TestDescribe_Empty(t *testing.T) {
	got := Describe(nil, func(s sample) string { return s.group }, func(s sample) float64 { return s.v })
	assert.Empty(t, got)
}

func TestDescribe_NumericKeysSorted(t *testing.T) {
	rows := []float64{1.2, 0.5, 1.2, 0.8}

	got := Describe(rows, func(v float64) float64 { return v }, func(v float64) float64 { return v })

	keys := make([]float64, 0, len(got))
	for _, g := range got {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []float64{0.5, 0.8, 1.2}, keys)
	assert.Equal(t, 2, got[2].Count)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.46, Round2(0.456))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 10.0, Round2(10))
}
