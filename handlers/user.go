package handlers

import (
	"net/http"

	"drutaseva/models"
	userService "drutaseva/services/user"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	Service userService.UserService
}

// Register creates an account and returns the signed-in response.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.UserRegistrationData
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Authenticate signs a rider in with email and password.
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login request", err.Error())
		return
	}

	resp, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the authenticated rider's account.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	usr, err := h.Service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("Failed to get user profile", zap.Error(err))
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// RevokeToken signs the rider out.
func (h *UserHandler) RevokeToken(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.Service.RevokeAuthToken(c.Request.Context(), userID); err != nil {
		getLogger(c).Error("Failed to revoke auth token", zap.Error(err))
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
