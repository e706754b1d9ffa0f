package handlers

import (
	"net/http"

	"drutaseva/services/booking"
	"drutaseva/services/user"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
)

// respondWizardError translates a booking service error into an HTTP response.
// Unknown errors become a 500 with a generic message.
func respondWizardError(c *gin.Context, err error) {
	switch {
	case booking.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
	case booking.IsSessionExpired(err):
		utils.JSONError(c, http.StatusNotFound, "Booking session not found or expired", err.Error())
	case booking.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case booking.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "Request conflicts with the session state", err.Error())
	case booking.IsDispatchFailed(err):
		utils.JSONError(c, http.StatusBadGateway, "Dispatch failed", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "")
	}
}

// respondAuthError translates a user service error into an HTTP response.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case user.IsInvalidCredentials(err):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", err.Error())
	case user.IsInvalidOTP(err):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired code", err.Error())
	case user.IsOTPThrottled(err):
		utils.JSONError(c, http.StatusTooManyRequests, "Too many requests", err.Error())
	case user.IsDuplicateAccount(err):
		utils.JSONError(c, http.StatusConflict, "Account already exists", err.Error())
	case user.IsUserNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "")
	}
}
