package validate

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func checkScreeningRefs(c *fiber.Ctx, movieId, auditoriumId *uint, projectionTypeId *uint) error {
	if movieId != nil {
		var movie model.Movie
		if err := database.DB.Where("id = ?", *movieId).First(&movie).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Movie does not exist", err, "movie_id")
		}
	}
	if auditoriumId != nil {
		var auditorium model.Auditorium
		if err := database.DB.Where("id = ?", *auditoriumId).First(&auditorium).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Auditorium does not exist", err, "auditorium_id")
		}
	}
	if projectionTypeId != nil {
		var pt model.ProjectionType
		if err := database.DB.Where("id = ?", *projectionTypeId).First(&pt).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Projection type does not exist", err, "projection_type_id")
		}
	}
	return nil
}

func CreateScreening() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateScreeningInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if err := checkScreeningRefs(c, &input.MovieId, &input.AuditoriumId, input.ProjectionTypeId); err != nil {
			return err
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func EditScreening(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.UpdateScreeningInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		var screening model.Screening
		if err := database.DB.Where("id = ?", valueKey).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screeningId")
		}

		if err := checkScreeningRefs(c, input.MovieId, input.AuditoriumId, input.ProjectionTypeId); err != nil {
			return err
		}

		c.Locals("input", input)
		c.Locals("screeningId", uint(valueKey))
		return c.Next()
	}
}

func DeleteScreening(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var screening model.Screening
		if err := database.DB.Where("id = ?", valueKey).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screeningId")
		}

		var ticketCount int64
		if err := database.DB.Model(&model.Ticket{}).Where("screening_id = ?", valueKey).Count(&ticketCount).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check tickets", err)
		}
		if ticketCount > 0 {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Cannot delete a screening with sold tickets", nil, "screeningId")
		}

		c.Locals("screeningId", uint(valueKey))
		return c.Next()
	}
}
