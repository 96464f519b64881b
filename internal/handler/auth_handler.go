package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/service"
	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
	"github.com/lithium-edu/exam-rooms-api/pkg/response"
)

// AuthHandler serves operator login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, models.LoginResponse{Token: token, User: user})
}
