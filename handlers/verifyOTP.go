package handlers

import (
	"net/http"

	"drutaseva/utils"

	"github.com/gin-gonic/gin"
)

// SendOTPHandler issues a one-time sign-in code to a phone number.
func (h *UserHandler) SendOTPHandler(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.Service.SendOTP(c.Request.Context(), req.PhoneNumber); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOTPHandler checks the code and signs the rider in, creating the
// account on first verification.
func (h *UserHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.Service.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
