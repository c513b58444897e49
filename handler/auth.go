package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Register(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterInput)
	db := database.DB

	var count int64
	if err := db.Model(&model.Account{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not check account", err)
	}
	if count > 0 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Username or email already registered", nil, "username")
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not hash password", err)
	}

	account := model.Account{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Role:     constants.ROLE_CUSTOMER,
		Active:   true,
	}
	if err := db.Create(&account).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create account", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, account)
}

func Login(c *fiber.Ctx) error {
	input := c.Locals("input").(model.LoginInput)

	account, err := helper.GetAccountByUsername(input.Username)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load account", err)
	}
	if account == nil || !helper.CheckPasswordHash(input.Password, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", errors.New("credentials rejected"))
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is deactivated", errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
	accessToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not issue token", err)
	}
	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not issue token", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		SameSite: "None",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		SameSite: "None",
		Path:     "/",
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"account": fiber.Map{
			"id":       account.ID,
			"username": account.Username,
			"email":    account.Email,
			"role":     account.Role,
		},
		"tokens": model.TokenData{AccessToken: accessToken, RefreshToken: refreshToken},
	})
}

func RefreshToken(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RefreshInput)

	token, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return helper.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", errors.New("bad claims"))
	}

	accountId, _ := claims["accountId"].(float64)
	var account model.Account
	if err := database.DB.First(&account, uint(accountId)).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Account no longer exists", err)
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is deactivated", nil)
	}

	tokenClaim := model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
	accessToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not issue token", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		SameSite: "None",
		Path:     "/",
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"accessToken": accessToken})
}

func Me(c *fiber.Ctx) error {
	tokenClaim, _ := helper.GetInfoAccountFromToken(c)

	var account model.Account
	if err := database.DB.First(&account, tokenClaim.AccountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, account)
}
