package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uptrack-app/uptrack/internal/services"
)

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	_, err = h.auth.Register(c, services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg": "user created, check your email to confirm the account",
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		case errors.Is(err, services.ErrUserNotConfirmed):
			abort(c, newForbiddenError(services.ErrUserNotConfirmed.Error()))
		case errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newForbiddenError(services.ErrUserPasswordMismatch.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		ID:    result.Profile.ID,
		Name:  result.Profile.Name,
		Email: result.Profile.Email,
		Token: result.Token,
	})
}

func (h *handlerImpl) HandleConfirm(c *gin.Context) {
	token := c.Param("token")

	err := h.auth.Confirm(c, token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to confirm user")
		switch {
		case errors.Is(err, services.ErrTokenInvalid):
			abort(c, newForbiddenError(services.ErrTokenInvalid.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "account confirmed"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

func (h *handlerImpl) HandleForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.auth.ForgotPassword(c, req.Email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue reset token")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newForbiddenError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg": "we sent the reset instructions to your email",
	})
}

func (h *handlerImpl) HandleCheckResetToken(c *gin.Context) {
	token := c.Param("token")

	err := h.auth.CheckResetToken(c, token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to check reset token")
		switch {
		case errors.Is(err, services.ErrTokenInvalid):
			abort(c, newNotFoundError(services.ErrTokenInvalid.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "token is valid and the user exists"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.auth.ResetPassword(c, c.Param("token"), req.Password)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to reset password")
		switch {
		case errors.Is(err, services.ErrTokenInvalid):
			abort(c, newNotFoundError(services.ErrTokenInvalid.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "password reset successfully"})
}

func (h *handlerImpl) HandleProfile(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:    principal.ID,
		Name:  principal.Name,
		Email: principal.Email,
	})
}
