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

func GetPromotions(c *fiber.Ctx) error {
	var rules []model.PromotionRule
	if err := database.DB.Order("id ASC").Find(&rules).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load promotions", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rules)
}

func CreatePromotion(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreatePromotionInput)

	rule := model.PromotionRule{}
	if err := copier.Copy(&rule, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not map input", err)
	}

	if err := database.DB.Create(&rule).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create promotion", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, rule)
}

func DeletePromotion(c *fiber.Ctx) error {
	ruleId := c.Locals("inputId").(uint)
	db := database.DB

	var rule model.PromotionRule
	if err := db.First(&rule, ruleId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	if err := db.Delete(&rule).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete promotion", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": ruleId})
}

// CheckPromotion previews the price for a prospective purchase. Read only:
// the same resolution runs again at commit time, so the preview can never
// lock in a discount.
func CheckPromotion(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CheckPromotionInput)
	screening := c.Locals("screening").(model.Screening)
	ticketType := c.Locals("ticketType").(model.TicketType)

	var rules []model.PromotionRule
	if err := database.DB.Find(&rules).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load promotions", err)
	}

	quote := helper.CalculatePrice(len(input.SeatIds), ticketType, screening, rules, time.Now())
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}
