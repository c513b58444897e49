package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetMovies(c *fiber.Ctx) error {
	filterInput := new(model.FilterMovieInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	db := database.DB

	condition := db.Model(&model.Movie{})
	if filterInput.Title != "" {
		condition = condition.Where("title ILIKE ?", "%"+filterInput.Title+"%")
	}
	if filterInput.Genre != "" {
		condition = condition.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.name = ?", filterInput.Genre)
	}

	today := time.Now()
	if filterInput.Category != "" {
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		switch filterInput.Category {
		case helper.CategoryNowPlaying:
			condition = condition.Where("release_date <= ? AND release_date >= ?", day, day.AddDate(0, 0, -30))
		case helper.CategoryComingSoon:
			condition = condition.Where("release_date > ?", day)
		case helper.CategorySpecialEvent:
			condition = condition.Where("release_date < ?", day.AddDate(0, 0, -30))
		}
	}

	var total int64
	if err := condition.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not count movies", err)
	}

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var movies model.Movies
	if err := condition.Preload("Genres").Order("release_date DESC").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load movies", err)
	}

	type MovieWithCategory struct {
		model.Movie
		Category string `json:"category"`
	}
	rows := make([]MovieWithCategory, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, MovieWithCategory{Movie: m, Category: helper.MovieCategory(m.ReleaseDate.Time, today)})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       rows,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: total,
	})
}

func GetMovieById(c *fiber.Ctx) error {
	movieId := c.Locals("inputId").(uint)

	var movie model.Movie
	if err := database.DB.Preload("Genres").First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func GetMovieBySlug(c *fiber.Ctx) error {
	slugParam := c.Params("slug")

	var movie model.Movie
	if err := database.DB.Preload("Genres").Where("slug = ?", slugParam).First(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func CreateMovie(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateMovieInput)
	db := database.DB

	var cinemaReleasePtr *time.Time
	if input.CinemaReleaseDate != nil {
		cinemaReleasePtr = &input.CinemaReleaseDate.Time
	}
	cinemaRelease, err := helper.NormalizeCinemaRelease(input.ReleaseDate.Time, cinemaReleasePtr)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, err.Error(), nil, "cinemaReleaseDate")
	}

	movie := model.Movie{}
	if err := copier.Copy(&movie, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not map input", err)
	}
	movie.CinemaReleaseDate = utils.CustomDate{Time: cinemaRelease}

	tx := db.Begin()
	movie.Slug = helper.GenerateUniqueMovieSlug(tx, input.Title)

	if err := tx.Create(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create movie", err)
	}

	if len(input.GenreIds) > 0 {
		var genres []model.Genre
		if err := tx.Where("id IN ?", input.GenreIds).Find(&genres).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load genres", err)
		}
		if err := tx.Model(&movie).Association("Genres").Append(&genres); err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not attach genres", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	db.Preload("Genres").First(&movie, movie.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, movie)
}

func EditMovie(c *fiber.Ctx) error {
	input := c.Locals("input").(model.EditMovieInput)
	movieId := c.Locals("movieId").(uint)
	db := database.DB

	var movie model.Movie
	if err := db.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	tx := db.Begin()

	if input.Title != nil && *input.Title != movie.Title {
		movie.Title = *input.Title
		movie.Slug = helper.GenerateUniqueMovieSlug(tx, *input.Title)
	}
	if input.OriginalTitle != nil {
		movie.OriginalTitle = *input.OriginalTitle
	}
	if input.Description != nil {
		movie.Description = *input.Description
	}
	if input.ReleaseDate != nil {
		movie.ReleaseDate = *input.ReleaseDate
	}
	if input.CinemaReleaseDate != nil {
		movie.CinemaReleaseDate = *input.CinemaReleaseDate
	}
	if input.DurationMinutes != nil {
		movie.DurationMinutes = *input.DurationMinutes
	}
	if input.Directors != nil {
		movie.Directors = *input.Directors
	}
	if input.PosterPath != nil {
		movie.PosterPath = *input.PosterPath
	}

	if movie.CinemaReleaseDate.Before(movie.ReleaseDate.Time) {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "cinema release date cannot precede the release date", nil, "cinemaReleaseDate")
	}

	if err := tx.Save(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update movie", err)
	}

	if input.GenreIds != nil {
		var genres []model.Genre
		if err := tx.Where("id IN ?", *input.GenreIds).Find(&genres).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load genres", err)
		}
		if err := tx.Model(&movie).Association("Genres").Replace(&genres); err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update genres", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	db.Preload("Genres").First(&movie, movie.ID)
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func DeleteMovie(c *fiber.Ctx) error {
	movieId := c.Locals("inputId").(uint)
	db := database.DB

	var movie model.Movie
	if err := db.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	var screeningCount int64
	if err := db.Model(&model.Screening{}).Where("movie_id = ?", movieId).Count(&screeningCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check screenings", err)
	}
	if screeningCount > 0 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Cannot delete a movie with scheduled screenings", nil, "movieId")
	}

	tx := db.Begin()
	if err := tx.Model(&movie).Association("Genres").Clear(); err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not detach genres", err)
	}
	if err := tx.Delete(&movie).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete movie", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": movieId})
}

func GetGenres(c *fiber.Ctx) error {
	var genres []model.Genre
	if err := database.DB.Order("name ASC").Find(&genres).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load genres", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, genres)
}
