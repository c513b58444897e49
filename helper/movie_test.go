package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieCategory(t *testing.T) {
	today := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, CategoryNowPlaying, MovieCategory(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), today), "released today")
	assert.Equal(t, CategoryNowPlaying, MovieCategory(time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC), today), "released 30 days ago")
	assert.Equal(t, CategoryComingSoon, MovieCategory(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, CategorySpecialEvent, MovieCategory(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), today))
}

func TestNormalizeCinemaRelease(t *testing.T) {
	release := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// missing premiere falls back to the release date
	got, err := NormalizeCinemaRelease(release, nil)
	require.NoError(t, err)
	assert.Equal(t, release, got)

	later := release.AddDate(0, 0, 14)
	got, err = NormalizeCinemaRelease(release, &later)
	require.NoError(t, err)
	assert.Equal(t, later, got)

	earlier := release.AddDate(0, 0, -1)
	_, err = NormalizeCinemaRelease(release, &earlier)
	assert.Error(t, err)
}
