package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPie_PNG(t *testing.T) {
	var buf bytes.Buffer
	err := Pie(&buf, PNG, "Coils per alloy", []Slice{{"CR4", 12}, {"DC01", 5}, {"DC04", 2}})
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, width, img.Bounds().Dx())
	assert.Equal(t, height, img.Bounds().Dy())
}

func TestBar_SVG(t *testing.T) {
	var buf bytes.Buffer
	err := Bar(&buf, SVG, "Per day avg delay", []Slice{{"2019-05-01", 12.5}, {"2019-05-02", 30}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "<svg")
}

func TestNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Pie(&buf, PNG, "empty", nil), ErrNoData)
	assert.ErrorIs(t, Bar(&buf, PNG, "zeros", []Slice{{"a", 0}}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestNegativeValue(t *testing.T) {
	var buf bytes.Buffer
	err := Bar(&buf, PNG, "bad", []Slice{{"a", -1}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", PNG.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
