package helper

import (
	"testing"
	"time"

	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

var warsaw = time.FixedZone("CET", 1*3600)

func screeningAt(id uint, start time.Time, durationMinutes int) model.Screening {
	return model.Screening{
		DTO:       model.DTO{ID: id},
		StartTime: start,
		Movie:     model.Movie{DurationMinutes: durationMinutes},
	}
}

func TestCheckStartTime_Grid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)

	for _, minute := range []int{0, 10, 20, 30, 40, 50} {
		start := time.Date(2026, 3, 2, 18, minute, 0, 0, warsaw)
		assert.Nil(t, CheckStartTime(start, now), "minute %d should be allowed", minute)
	}

	for _, minute := range []int{1, 5, 15, 25, 37, 55, 59} {
		start := time.Date(2026, 3, 2, 18, minute, 0, 0, warsaw)
		v := CheckStartTime(start, now)
		require.NotNil(t, v, "minute %d should be rejected", minute)
		assert.Equal(t, "start_time", v.Field)
	}
}

func TestCheckStartTime_SecondsMustBeZero(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)
	start := time.Date(2026, 3, 2, 18, 10, 30, 0, warsaw)

	v := CheckStartTime(start, now)
	require.NotNil(t, v)
	assert.Equal(t, "start_time", v.Field)
}

func TestCheckStartTime_MustBeFuture(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)

	past := time.Date(2026, 3, 1, 11, 50, 0, 0, warsaw)
	v := CheckStartTime(past, now)
	require.NotNil(t, v)
	assert.Equal(t, "start_time", v.Field)

	// exactly now is not in the future
	v = CheckStartTime(now.Truncate(time.Minute), time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw))
	assert.NotNil(t, v)
}

func TestResolvePublishedAt_DefaultsToNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, warsaw)

	resolved, v := ResolvePublishedAt(nil, start, now)
	require.Nil(t, v)
	assert.Equal(t, now, resolved)
}

func TestResolvePublishedAt_RejectsExplicitPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, warsaw)
	past := now.Add(-time.Hour)

	_, v := ResolvePublishedAt(&past, start, now)
	require.NotNil(t, v)
	assert.Equal(t, "published_at", v.Field)
}

func TestResolvePublishedAt_StartBeforePublication(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, warsaw)
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, warsaw)
	published := start.Add(time.Hour)

	_, v := ResolvePublishedAt(&published, start, now)
	require.NotNil(t, v)
	assert.Equal(t, "start_time", v.Field)
}

func TestCheckPremiere(t *testing.T) {
	release := time.Date(2026, 3, 5, 0, 0, 0, 0, warsaw)

	v := CheckPremiere(time.Date(2026, 3, 4, 23, 50, 0, 0, warsaw), release)
	require.NotNil(t, v)
	assert.Equal(t, "start_time", v.Field)

	// the premiere day itself is fine, any hour
	assert.Nil(t, CheckPremiere(time.Date(2026, 3, 5, 0, 0, 0, 0, warsaw), release))
	assert.Nil(t, CheckPremiere(time.Date(2026, 3, 5, 10, 0, 0, 0, warsaw), release))
	assert.Nil(t, CheckPremiere(time.Date(2026, 3, 6, 10, 0, 0, 0, warsaw), release))
}

func TestCheckAgainstExisting_Duplicate(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, warsaw)
	cand := ScreeningCandidate{
		AuditoriumId: 1,
		Movie:        model.Movie{DurationMinutes: 100},
		StartTime:    start,
	}
	existing := []model.Screening{screeningAt(7, start, 90)}

	v := CheckAgainstExisting(cand, existing)
	require.NotNil(t, v)
	assert.Equal(t, "non_field_errors", v.Field)
}

func TestCheckAgainstExisting_GapAfterPrevious(t *testing.T) {
	// previous runs 10:00-11:30, so with the 30-minute break the earliest
	// next start is 12:00
	prev := screeningAt(1, time.Date(2026, 3, 2, 10, 0, 0, 0, warsaw), 90)
	cand := ScreeningCandidate{
		AuditoriumId: 1,
		Movie:        model.Movie{DurationMinutes: 100},
	}

	cand.StartTime = time.Date(2026, 3, 2, 11, 50, 0, 0, warsaw)
	v := CheckAgainstExisting(cand, []model.Screening{prev})
	require.NotNil(t, v)
	assert.Equal(t, "non_field_errors", v.Field)

	cand.StartTime = time.Date(2026, 3, 2, 12, 0, 0, 0, warsaw)
	assert.Nil(t, CheckAgainstExisting(cand, []model.Screening{prev}))
}

func TestCheckAgainstExisting_GapBeforeNext(t *testing.T) {
	// candidate runs 100 minutes; the next screening at 14:00 demands the
	// candidate end by 13:30, giving a latest start of 11:50
	next := screeningAt(2, time.Date(2026, 3, 2, 14, 0, 0, 0, warsaw), 120)
	cand := ScreeningCandidate{
		AuditoriumId: 1,
		Movie:        model.Movie{DurationMinutes: 100},
	}

	cand.StartTime = time.Date(2026, 3, 2, 12, 0, 0, 0, warsaw)
	v := CheckAgainstExisting(cand, []model.Screening{next})
	require.NotNil(t, v)
	assert.Equal(t, "non_field_errors", v.Field)

	cand.StartTime = time.Date(2026, 3, 2, 11, 50, 0, 0, warsaw)
	assert.Nil(t, CheckAgainstExisting(cand, []model.Screening{next}))
}

func TestCheckAgainstExisting_SqueezeBetweenTwo(t *testing.T) {
	morning := screeningAt(1, time.Date(2026, 3, 2, 10, 0, 0, 0, warsaw), 90)  // ends 11:30
	evening := screeningAt(2, time.Date(2026, 3, 2, 15, 0, 0, 0, warsaw), 120) // break needed by 14:30
	existing := []model.Screening{evening, morning}

	cand := ScreeningCandidate{
		AuditoriumId: 1,
		Movie:        model.Movie{DurationMinutes: 120},
	}

	// 12:00 start, ends 14:00, break until 14:30: fits with room to spare
	cand.StartTime = time.Date(2026, 3, 2, 12, 0, 0, 0, warsaw)
	assert.Nil(t, CheckAgainstExisting(cand, existing))

	// 12:30 is the latest fitting start, ending 14:30 exactly
	cand.StartTime = time.Date(2026, 3, 2, 12, 30, 0, 0, warsaw)
	assert.Nil(t, CheckAgainstExisting(cand, existing))

	// 12:10 ends 14:10, still inside the window
	cand.StartTime = time.Date(2026, 3, 2, 12, 10, 0, 0, warsaw)
	assert.Nil(t, CheckAgainstExisting(cand, existing))

	// 12:40 ends 14:40 and pushes the break past the evening screening
	cand.StartTime = time.Date(2026, 3, 2, 12, 40, 0, 0, warsaw)
	assert.NotNil(t, CheckAgainstExisting(cand, existing))

	// 11:40 violates the morning gap instead
	cand.StartTime = time.Date(2026, 3, 2, 11, 40, 0, 0, warsaw)
	assert.NotNil(t, CheckAgainstExisting(cand, existing))
}

func TestCheckAgainstExisting_EmptyAuditorium(t *testing.T) {
	cand := ScreeningCandidate{
		AuditoriumId: 1,
		Movie:        model.Movie{DurationMinutes: 100},
		StartTime:    time.Date(2026, 3, 2, 12, 0, 0, 0, warsaw),
	}
	assert.Nil(t, CheckAgainstExisting(cand, nil))
}

func TestScheduleLockQueries(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)

	// the hall row is locked even when its schedule holds no screenings yet
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB { return lockAuditorium(tx, 7) })
	assert.Contains(t, sql, "auditoriums")
	assert.Contains(t, sql, "FOR UPDATE")

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var existing []model.Screening
		cand := ScreeningCandidate{AuditoriumId: 7, ScreeningId: utils.Ptr(uint(3))}
		return lockedHallScreenings(tx, cand, &existing)
	})
	assert.Contains(t, sql, "auditorium_id")
	assert.Contains(t, sql, "id != 3")
	assert.Contains(t, sql, "FOR UPDATE")
}
