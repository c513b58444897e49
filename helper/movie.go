package helper

import (
	"cinema_booking/model"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func GenerateUniqueMovieSlug(tx *gorm.DB, title string) string {
	base := slug.Make(title)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Movie{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

const (
	CategoryNowPlaying   = "NOW_PLAYING"
	CategoryComingSoon   = "COMING_SOON"
	CategorySpecialEvent = "SPECIAL_EVENT"
)

// MovieCategory classifies a movie by its release date: within the first 30
// days it counts as now playing, before release as coming soon, anything
// older as a special event.
func MovieCategory(releaseDate time.Time, today time.Time) string {
	release := time.Date(releaseDate.Year(), releaseDate.Month(), releaseDate.Day(), 0, 0, 0, 0, today.Location())
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch {
	case !day.Before(release) && !day.After(release.AddDate(0, 0, 30)):
		return CategoryNowPlaying
	case release.After(day):
		return CategoryComingSoon
	default:
		return CategorySpecialEvent
	}
}

// NormalizeCinemaRelease applies constructor-time defaulting: a missing
// cinema premiere falls back to the general release date. Returns an error
// message when the premiere would precede the release.
func NormalizeCinemaRelease(release time.Time, cinemaRelease *time.Time) (time.Time, error) {
	if cinemaRelease == nil {
		return release, nil
	}
	if cinemaRelease.Before(release) {
		return time.Time{}, fmt.Errorf("cinema release date cannot precede the release date")
	}
	return *cinemaRelease, nil
}
