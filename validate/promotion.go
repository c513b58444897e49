package validate

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreatePromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreatePromotionInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if input.TimeFrom != nil {
			if _, ok := helper.ParseClock(*input.TimeFrom); !ok {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Invalid time, expected HH:MM", nil, "timeFrom")
			}
		}
		if input.TimeTo != nil {
			if _, ok := helper.ParseClock(*input.TimeTo); !ok {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Invalid time, expected HH:MM", nil, "timeTo")
			}
		}

		if input.TicketTypeId != nil {
			var ticketType model.TicketType
			if err := database.DB.Where("id = ?", *input.TicketTypeId).First(&ticketType).Error; err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Ticket type does not exist", err, "ticketTypeId")
			}
		}
		if input.ScreeningId != nil {
			var screening model.Screening
			if err := database.DB.Where("id = ?", *input.ScreeningId).First(&screening).Error; err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screeningId")
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func CheckPromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CheckPromotionInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		var screening model.Screening
		if err := database.DB.Where("id = ?", input.ScreeningId).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screening_id")
		}
		var ticketType model.TicketType
		if err := database.DB.Where("id = ?", input.TicketTypeId).First(&ticketType).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Ticket type does not exist", err, "ticket_type_id")
		}

		c.Locals("input", input)
		c.Locals("screening", screening)
		c.Locals("ticketType", ticketType)
		return c.Next()
	}
}
