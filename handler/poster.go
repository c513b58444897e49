package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// UploadMoviePoster replaces the movie's poster with an uploaded image.
func UploadMoviePoster(c *fiber.Ctx) error {
	movieId := c.Locals("inputId").(uint)
	db := database.DB

	var movie model.Movie
	if err := db.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	posterFile, err := c.FormFile("poster")
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Poster file is required", err, "poster")
	}

	posterReader, err := posterFile.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not read poster file", err)
	}
	defer posterReader.Close()

	cld := helper.InitCloudinary()
	result, err := cld.Upload.Upload(context.Background(), posterReader, uploader.UploadParams{
		Folder:       "movies/posters",
		PublicID:     fmt.Sprintf("movie_%d_poster_%d", movieId, time.Now().Unix()),
		ResourceType: "image",
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not upload poster", err)
	}

	if err := db.Model(&movie).Update("poster_path", result.SecureURL).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not save poster path", err)
	}

	movie.PosterPath = result.SecureURL
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}
