package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/waterrun/internal/model"
)

func TestRenderScores(t *testing.T) {
	standings := []model.Standing{
		{Participant: model.Participant{ID: 1, Name: "Ada"}, Score: 7},
		{Participant: model.Participant{ID: 2, Name: "Bo"}, Score: 3},
		{Participant: model.Participant{ID: 3, Name: "Cy"}},
	}

	data, err := RenderScores(standings, DefaultPalette)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderScoresAllZero(t *testing.T) {
	standings := []model.Standing{
		{Participant: model.Participant{ID: 1, Name: "Ada"}},
		{Participant: model.Participant{ID: 2, Name: "Bo"}},
	}

	data, err := RenderScores(standings, DefaultPalette)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderScoresPlaceholder(t *testing.T) {
	data, err := RenderScores(nil, DefaultPalette)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width/2, img.Bounds().Dx())
}

func TestScoreRange(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		min    float64
		max    float64
	}{
		{"all zero", []int{0, 0}, 0, 1},
		{"positive", []int{7, 3, 0}, 0, 7},
		{"negative", []int{-4, 2}, -4, 2},
		{"only negative", []int{-2, -1}, -2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := make([]model.Standing, len(tt.scores))
			for i, sc := range tt.scores {
				standings[i] = model.Standing{Participant: model.Participant{ID: int64(i + 1)}, Score: sc}
			}

			r := scoreRange(standings)

			assert.Equal(t, tt.min, r.Min)
			assert.Equal(t, tt.max, r.Max)
		})
	}
}

func TestRenderScoresNegative(t *testing.T) {
	standings := []model.Standing{
		{Participant: model.Participant{ID: 1, Name: "Ada"}, Score: -3},
		{Participant: model.Participant{ID: 2, Name: "Bo"}, Score: 4},
	}

	data, err := RenderScores(standings, DefaultPalette)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
}
