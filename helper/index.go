package helper

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetAccountByUsername(u string) (*model.Account, error) {
	db := database.DB
	var account model.Account
	if err := db.Where(&model.Account{Username: u}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["role"] = tokenClaim.Role
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["role"] = tokenClaim.Role
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

// GetInfoAccountFromToken reads the parsed JWT stashed by the middleware and
// returns the claim plus the admin flag. Anonymous requests come back with a
// zero claim.
func GetInfoAccountFromToken(c *fiber.Ctx) (model.TokenClaim, bool) {
	var tokenClaim model.TokenClaim

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return tokenClaim, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaim, false
	}

	if username, ok := claims["username"].(string); ok {
		tokenClaim.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		tokenClaim.Role = role
	}
	if accountId, ok := claims["accountId"].(float64); ok {
		tokenClaim.AccountId = uint(accountId)
	}

	return tokenClaim, tokenClaim.Role == constants.ROLE_ADMIN
}
