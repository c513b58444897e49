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

func CreateMovie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateMovieInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if len(input.GenreIds) > 0 {
			var count int64
			if err := database.DB.Model(&model.Genre{}).Where("id IN ?", input.GenreIds).Count(&count).Error; err != nil {
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check genres", err)
			}
			if count != int64(len(input.GenreIds)) {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "One or more genres do not exist", nil, "genreIds")
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func EditMovie(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		var input model.EditMovieInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		var movie model.Movie
		if err := database.DB.Where("id = ?", valueKey).First(&movie).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Movie does not exist", err, "movieId")
		}

		c.Locals("input", input)
		c.Locals("movieId", uint(valueKey))
		return c.Next()
	}
}
