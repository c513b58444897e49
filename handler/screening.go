package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func GetScreenings(c *fiber.Ctx) error {
	filterInput := new(model.FilterScreeningInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	db := database.DB

	condition := db.Model(&model.Screening{})
	if filterInput.MovieId > 0 {
		condition = condition.Where("movie_id = ?", filterInput.MovieId)
	}
	if filterInput.AuditoriumId > 0 {
		condition = condition.Where("auditorium_id = ?", filterInput.AuditoriumId)
	}
	if filterInput.StartAfter != "" {
		after, err := time.Parse(time.RFC3339, filterInput.StartAfter)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid startAfter format (use RFC3339)", err)
		}
		condition = condition.Where("start_time >= ?", after)
	}
	if filterInput.StartBefore != "" {
		before, err := time.Parse(time.RFC3339, filterInput.StartBefore)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid startBefore format (use RFC3339)", err)
		}
		condition = condition.Where("start_time <= ?", before)
	}

	// anonymous listings only show published screenings
	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		condition = condition.Where("published_at <= ?", time.Now())
	}

	var total int64
	if err := condition.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not count screenings", err)
	}

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var screenings []model.Screening
	if err := condition.
		Preload("Movie").
		Preload("Auditorium").
		Preload("ProjectionType").
		Order("start_time ASC").
		Find(&screenings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load screenings", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       screenings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: total,
	})
}

func GetScreeningById(c *fiber.Ctx) error {
	screeningId := c.Locals("inputId").(uint)

	var screening model.Screening
	if err := database.DB.
		Preload("Movie").
		Preload("Movie.Genres").
		Preload("Auditorium").
		Preload("ProjectionType").
		First(&screening, screeningId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	_, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin && screening.PublishedAt.After(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, nil)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, screening)
}

// isUniqueViolation recognizes the backstop index kicking in under a race;
// the loser of the race gets the same 400 a sequential request would get.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

func CreateScreening(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateScreeningInput)
	db := database.DB
	now := time.Now()

	var movie model.Movie
	if err := db.First(&movie, input.MovieId).Error; err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Movie does not exist", err, "movie_id")
	}

	tx := db.Begin()

	cand := helper.ScreeningCandidate{
		AuditoriumId: input.AuditoriumId,
		Movie:        movie,
		StartTime:    input.StartTime,
		PublishedAt:  input.PublishedAt,
	}
	publishedAt, violation, err := helper.ValidateSchedule(tx, cand, now)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not validate schedule", err)
	}
	if violation != nil {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, violation.Message, nil, violation.Field)
	}

	screening := model.Screening{
		MovieId:          input.MovieId,
		AuditoriumId:     input.AuditoriumId,
		ProjectionTypeId: input.ProjectionTypeId,
		StartTime:        input.StartTime,
		PublishedAt:      publishedAt,
	}
	if err := tx.Create(&screening).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A screening at this time in this auditorium already exists", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create screening", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	db.Preload("Movie").Preload("Auditorium").Preload("ProjectionType").First(&screening, screening.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, screening)
}

func EditScreening(c *fiber.Ctx) error {
	input := c.Locals("input").(model.UpdateScreeningInput)
	screeningId := c.Locals("screeningId").(uint)
	db := database.DB
	now := time.Now()

	var screening model.Screening
	if err := db.First(&screening, screeningId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	var ticketCount int64
	if err := db.Model(&model.Ticket{}).Where("screening_id = ?", screeningId).Count(&ticketCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check tickets", err)
	}
	if ticketCount > 0 && (input.StartTime != nil || input.AuditoriumId != nil) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
			"Cannot reschedule a screening with sold tickets", nil, "non_field_errors")
	}

	if input.MovieId != nil {
		screening.MovieId = *input.MovieId
	}
	if input.AuditoriumId != nil {
		screening.AuditoriumId = *input.AuditoriumId
	}
	if input.ProjectionTypeId != nil {
		screening.ProjectionTypeId = input.ProjectionTypeId
	}
	if input.StartTime != nil {
		screening.StartTime = *input.StartTime
	}

	var movie model.Movie
	if err := db.First(&movie, screening.MovieId).Error; err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Movie does not exist", err, "movie_id")
	}

	// the past-publish rule only applies to a newly supplied value; a
	// screening published long ago keeps its stored publish time
	publishedAtInput := input.PublishedAt
	keepStoredPublish := false
	if publishedAtInput == nil {
		if screening.PublishedAt.After(now) {
			publishedAtInput = &screening.PublishedAt
		} else {
			keepStoredPublish = true
			publishedAtInput = &now
		}
	}

	tx := db.Begin()

	cand := helper.ScreeningCandidate{
		ScreeningId:  &screening.ID,
		AuditoriumId: screening.AuditoriumId,
		Movie:        movie,
		StartTime:    screening.StartTime,
		PublishedAt:  publishedAtInput,
	}
	publishedAt, violation, err := helper.ValidateSchedule(tx, cand, now)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not validate schedule", err)
	}
	if violation != nil {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, violation.Message, nil, violation.Field)
	}
	if !keepStoredPublish {
		screening.PublishedAt = publishedAt
	}

	if err := tx.Save(&screening).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A screening at this time in this auditorium already exists", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update screening", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	db.Preload("Movie").Preload("Auditorium").Preload("ProjectionType").First(&screening, screening.ID)
	return utils.SuccessResponse(c, fiber.StatusOK, screening)
}

func DeleteScreening(c *fiber.Ctx) error {
	screeningId := c.Locals("screeningId").(uint)
	db := database.DB

	tx := db.Begin()
	if err := tx.Where("screening_id = ?", screeningId).Delete(&model.Reservation{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not remove holds", err)
	}
	if err := tx.Delete(&model.Screening{}, screeningId).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete screening", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": screeningId})
}
