package handlers

import (
	"net/http"

	bookingRepo "drutaseva/database/repository/booking"
	"drutaseva/models"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RescueHandler serves the rider's booking status view.
type RescueHandler struct {
	Repo bookingRepo.BookingRepository
}

// GetActive returns the rider's current active booking. No active booking is a
// normal state, not an error: the client renders the empty view from a null
// booking.
func (h *RescueHandler) GetActive(c *gin.Context) {
	userID := c.GetString("userID")

	current, err := h.Repo.GetActiveByUser(userID)
	if err != nil {
		getLogger(c).Error("Failed to fetch active booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve booking", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": current})
}

// GetHistory lists the rider's bookings, newest first.
func (h *RescueHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("userID")

	bookings, err := h.Repo.ListByUser(userID)
	if err != nil {
		getLogger(c).Error("Failed to fetch booking history", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve bookings", "")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetByID returns a single booking owned by the rider.
func (h *RescueHandler) GetByID(c *gin.Context) {
	userID := c.GetString("userID")

	current, err := h.Repo.GetByID(c.Param("bookingID"))
	if err != nil {
		getLogger(c).Error("Failed to fetch booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve booking", "")
		return
	}
	if current == nil || current.UserID != userID {
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": current})
}

// Cancel cancels an active booking. Completed or already cancelled bookings
// cannot be cancelled again.
func (h *RescueHandler) Cancel(c *gin.Context) {
	userID := c.GetString("userID")
	bookingID := c.Param("bookingID")

	current, err := h.Repo.GetByID(bookingID)
	if err != nil {
		getLogger(c).Error("Failed to fetch booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel booking", "")
		return
	}
	if current == nil || current.UserID != userID {
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		return
	}
	if !current.Status.Active() {
		utils.JSONError(c, http.StatusConflict, "Booking can no longer be cancelled", "")
		return
	}

	if err := h.Repo.UpdateStatus(bookingID, models.StatusCancelled); err != nil {
		getLogger(c).Error("Failed to cancel booking", zap.String("bookingID", bookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel booking", "")
		return
	}

	getLogger(c).Info("Booking cancelled", zap.String("bookingID", bookingID), zap.String("userID", userID))
	current.Status = models.StatusCancelled
	c.JSON(http.StatusOK, gin.H{"booking": current})
}
