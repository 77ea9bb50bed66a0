package handler

import (
	"errors"
	"time"

	"queue_manager/constants"
	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		UserName string `json:"username"`
		Password string `json:"password"`
	}

	loginInput := new(LoginInput)

	if err := c.BodyParser(loginInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
	}

	if loginInput.UserName == "" || loginInput.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("username and password are required"))
	}

	accountModel, err := helper.GetAccountByUsername(loginInput.UserName)

	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if accountModel == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_USERNAME, errors.New("username not exists"))
	}

	if !helper.CheckPasswordHash(loginInput.Password, accountModel.Password) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.INVALID_PASSWORD, errors.New("password does not match username"))
	}

	if !accountModel.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		AccountId: accountModel.ID,
		Username:  accountModel.Username,
	}
	token, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	now := time.Now()
	database.DB.Model(accountModel).Update("last_login", now)

	return utils.SuccessResponse(c, fiber.StatusOK, model.TokenData{
		AccessToken:  token,
		RefreshToken: refreshToken,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	type RefreshInput struct {
		RefreshToken string `json:"refreshToken"`
	}

	input := new(RefreshInput)
	if err := c.BodyParser(input); err != nil || input.RefreshToken == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	jwtToken, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		return helper.JwtSecret, nil
	})
	if err != nil || !jwtToken.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", err)
	}

	// access token không dùng thay refresh token được
	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", errors.New("invalid token claims"))
	}
	if isRefresh, _ := claims["refresh"].(bool); !isRefresh {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", errors.New("not a refresh token"))
	}

	tokenClaim, err := helper.ParseTokenClaim(jwtToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", err)
	}

	token, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.TokenData{
		AccessToken:  token,
		RefreshToken: refreshToken,
	})
}

func Me(c *fiber.Ctx) error {
	jwtToken, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing token", errors.New("no token"))
	}

	tokenClaim, err := helper.ParseTokenClaim(jwtToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
	}

	var account model.Account
	if err := database.DB.First(&account, tokenClaim.AccountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, account)
}
