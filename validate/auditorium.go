package validate

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateAuditorium() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateAuditoriumInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		var count int64
		if err := database.DB.Model(&model.Auditorium{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check auditorium name", err)
		}
		if count > 0 {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Auditorium with this name already exists", nil, "name")
		}

		c.Locals("input", input)
		return c.Next()
	}
}
