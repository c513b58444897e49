package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetAuditoriums(c *fiber.Ctx) error {
	var auditoriums []model.Auditorium
	if err := database.DB.Preload("Seats").Order("name ASC").Find(&auditoriums).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load auditoriums", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, auditoriums)
}

func GetAuditoriumById(c *fiber.Ctx) error {
	auditoriumId := c.Locals("inputId").(uint)

	var auditorium model.Auditorium
	if err := database.DB.Preload("Seats", func(db *gorm.DB) *gorm.DB {
		return db.Order("row_number ASC, seat_number ASC")
	}).First(&auditorium, auditoriumId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, auditorium)
}

// CreateAuditorium creates a hall together with its full seat grid in one
// transaction. Seats are immutable afterwards.
func CreateAuditorium(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateAuditoriumInput)
	db := database.DB

	tx := db.Begin()

	auditorium := model.Auditorium{Name: input.Name}
	if err := tx.Create(&auditorium).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create auditorium", err)
	}

	seats := make([]model.Seat, 0, input.Rows*input.SeatsPerRow)
	for row := 1; row <= input.Rows; row++ {
		for num := 1; num <= input.SeatsPerRow; num++ {
			seats = append(seats, model.Seat{
				AuditoriumId: auditorium.ID,
				RowNumber:    row,
				SeatNumber:   num,
			})
		}
	}
	if err := tx.CreateInBatches(&seats, 200).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create seats", err)
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	auditorium.Seats = seats
	return utils.SuccessResponse(c, fiber.StatusCreated, auditorium)
}

func DeleteAuditorium(c *fiber.Ctx) error {
	auditoriumId := c.Locals("inputId").(uint)
	db := database.DB

	var auditorium model.Auditorium
	if err := db.First(&auditorium, auditoriumId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	var screeningCount int64
	if err := db.Model(&model.Screening{}).Where("auditorium_id = ?", auditoriumId).Count(&screeningCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check screenings", err)
	}
	if screeningCount > 0 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Cannot delete an auditorium with screenings", nil, "auditoriumId")
	}

	tx := db.Begin()
	if err := tx.Where("auditorium_id = ?", auditoriumId).Delete(&model.Seat{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete seats", err)
	}
	if err := tx.Delete(&auditorium).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not delete auditorium", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": auditoriumId})
}

func GetProjectionTypes(c *fiber.Ctx) error {
	var types []model.ProjectionType
	if err := database.DB.Order("id ASC").Find(&types).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load projection types", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, types)
}

func GetTicketTypes(c *fiber.Ctx) error {
	var types []model.TicketType
	if err := database.DB.Order("id ASC").Find(&types).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load ticket types", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, types)
}
