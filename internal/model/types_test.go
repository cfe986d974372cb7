package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunHasActorSet(t *testing.T) {
	run := Run{Actors: []int64{3, 1}}

	assert.True(t, run.HasActorSet(1, 3))
	assert.True(t, run.HasActorSet(3, 1))
	assert.False(t, run.HasActorSet(1, 2))
	assert.False(t, run.HasActorSet(1))
	assert.False(t, run.HasActorSet(1, 3, 4))
}

func TestResolveNamesUnknown(t *testing.T) {
	names := map[int64]string{1: "Ada", 2: "Bo"}

	got := ResolveNames([]int64{2, 9, 1}, names)

	assert.Equal(t, []string{"Bo", UnknownName, "Ada"}, got)
}

func TestModeIsVisit(t *testing.T) {
	assert.True(t, ModeAlone.IsVisit())
	assert.True(t, ModeGroup.IsVisit())
	assert.True(t, ModeLegacyImport.IsVisit())
	assert.True(t, ModeCorrection.IsVisit())
	assert.False(t, ModeScoreOverride.IsVisit())
}

func TestFormatTimestampFixedWidth(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	whole := time.Date(2025, 3, 1, 10, 0, 0, 0, loc)
	frac := time.Date(2025, 3, 1, 10, 0, 0, 123456789, loc)

	assert.Equal(t, "2025-03-01T04:30:00.000000Z", FormatTimestamp(whole))
	assert.Equal(t, "2025-03-01T04:30:00.123456Z", FormatTimestamp(frac))
	assert.Len(t, FormatTimestamp(whole), len(FormatTimestamp(frac)))
}
