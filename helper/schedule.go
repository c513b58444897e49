package helper

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleViolation is a business-rule rejection attributed to a field.
// Field is "start_time", "published_at" or "non_field_errors".
type ScheduleViolation struct {
	Field   string
	Message string
}

func (v *ScheduleViolation) Error() string { return v.Message }

// ScreeningCandidate is a proposed screening write. ScreeningId is set on
// update so the candidate does not conflict with itself.
type ScreeningCandidate struct {
	ScreeningId  *uint
	AuditoriumId uint
	Movie        model.Movie
	StartTime    time.Time
	PublishedAt  *time.Time
}

var allowedStartMinutes = map[int]bool{0: true, 10: true, 20: true, 30: true, 40: true, 50: true}

// CheckStartTime enforces the 10-minute grid and the future-dated rule.
func CheckStartTime(start, now time.Time) *ScheduleViolation {
	if !allowedStartMinutes[start.Minute()] || start.Second() != 0 || start.Nanosecond() != 0 {
		return &ScheduleViolation{
			Field:   "start_time",
			Message: "Screening must start on a full hour or at 10/20/30/40/50 minutes (seconds must be zero)",
		}
	}
	if !start.After(now) {
		return &ScheduleViolation{Field: "start_time", Message: "Screening must start in the future"}
	}
	return nil
}

// ResolvePublishedAt normalizes the publish time before validation: a missing
// value defaults to now, an explicit value must not lie in the past, and the
// screening may never start before its publication.
func ResolvePublishedAt(published *time.Time, start, now time.Time) (time.Time, *ScheduleViolation) {
	if published == nil {
		published = &now
	} else if published.Before(now) {
		return time.Time{}, &ScheduleViolation{
			Field:   "published_at",
			Message: "Publication time must be now or in the future",
		}
	}
	if start.Before(*published) {
		return time.Time{}, &ScheduleViolation{
			Field:   "start_time",
			Message: "Screening cannot start before its publication time",
		}
	}
	return *published, nil
}

// CheckPremiere rejects screenings dated before the movie's cinema premiere.
func CheckPremiere(start time.Time, cinemaRelease time.Time) *ScheduleViolation {
	startDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	releaseDate := time.Date(cinemaRelease.Year(), cinemaRelease.Month(), cinemaRelease.Day(), 0, 0, 0, 0, start.Location())
	if startDate.Before(releaseDate) {
		return &ScheduleViolation{
			Field:   "start_time",
			Message: "Screening cannot start before the movie's cinema premiere",
		}
	}
	return nil
}

// CheckAgainstExisting runs the slot checks against the other screenings of
// the same auditorium: exact duplicate, gap after the previous screening and
// gap before the next one. Each screening occupies [start, start+duration)
// plus a mandatory buffer on both sides. The caller must already have
// excluded the candidate itself from existing.
func CheckAgainstExisting(cand ScreeningCandidate, existing []model.Screening) *ScheduleViolation {
	buffer := time.Duration(constants.SCREENING_BUFFER_MINUTES) * time.Minute
	proposedEnd := cand.StartTime.Add(time.Duration(cand.Movie.DurationMinutes) * time.Minute)

	var prev, next *model.Screening
	for i := range existing {
		s := &existing[i]
		if s.StartTime.Equal(cand.StartTime) {
			return &ScheduleViolation{
				Field:   "non_field_errors",
				Message: "A screening at this time in this auditorium already exists",
			}
		}
		if s.StartTime.Before(cand.StartTime) {
			if prev == nil || s.StartTime.After(prev.StartTime) {
				prev = s
			}
		} else {
			if next == nil || s.StartTime.Before(next.StartTime) {
				next = s
			}
		}
	}

	if prev != nil {
		prevEnd := prev.StartTime.Add(time.Duration(prev.Movie.DurationMinutes) * time.Minute)
		if prevEnd.Add(buffer).After(cand.StartTime) {
			return &ScheduleViolation{
				Field:   "non_field_errors",
				Message: "Screening starts too early: at least 30 minutes are required after the previous screening ends",
			}
		}
	}

	if next != nil {
		if proposedEnd.Add(buffer).After(next.StartTime) {
			return &ScheduleViolation{
				Field:   "non_field_errors",
				Message: "Screening overlaps or leaves less than the required 30-minute break before the next screening",
			}
		}
	}

	return nil
}

// lockAuditorium takes the hall row FOR UPDATE. The screening rows alone
// cannot serialize concurrent writes: an empty or sparse schedule selects
// nothing, locks nothing, and two candidates would both pass the gap checks.
func lockAuditorium(tx *gorm.DB, auditoriumId uint) *gorm.DB {
	var auditorium model.Auditorium
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", auditoriumId).
		Find(&auditorium)
}

// lockedHallScreenings reads the hall's other screenings FOR UPDATE, movies
// preloaded for the duration math.
func lockedHallScreenings(tx *gorm.DB, cand ScreeningCandidate, dest *[]model.Screening) *gorm.DB {
	condition := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auditorium_id = ?", cand.AuditoriumId)
	if cand.ScreeningId != nil {
		condition = condition.Where("id != ?", *cand.ScreeningId)
	}
	return condition.Preload("Movie").Find(dest)
}

// ValidateSchedule runs the whole rule set inside the caller's transaction.
// The auditorium row is locked FOR UPDATE first, so all schedule writes for
// one hall serialize; the unique (auditorium_id, start_time) index remains
// as backstop for anything that still slips through. Returns the resolved
// publish time on success.
func ValidateSchedule(tx *gorm.DB, cand ScreeningCandidate, now time.Time) (time.Time, *ScheduleViolation, error) {
	if v := CheckStartTime(cand.StartTime, now); v != nil {
		return time.Time{}, v, nil
	}
	publishedAt, v := ResolvePublishedAt(cand.PublishedAt, cand.StartTime, now)
	if v != nil {
		return time.Time{}, v, nil
	}
	if v := CheckPremiere(cand.StartTime, cand.Movie.CinemaReleaseDate.Time); v != nil {
		return time.Time{}, v, nil
	}

	if err := lockAuditorium(tx, cand.AuditoriumId).Error; err != nil {
		return time.Time{}, nil, err
	}

	var existing []model.Screening
	if err := lockedHallScreenings(tx, cand, &existing).Error; err != nil {
		return time.Time{}, nil, err
	}

	if v := CheckAgainstExisting(cand, existing); v != nil {
		return time.Time{}, v, nil
	}

	return publishedAt, nil, nil
}
