package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// NewGolden returns a goldie instance reading testdata/golden/<name>.golden
// relative to the calling package.
//
// To regenerate golden files, run the package's tests with -update.
func NewGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
