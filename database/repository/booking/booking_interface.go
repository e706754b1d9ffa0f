package bookingRepo

import "drutaseva/models"

// BookingRepository defines persistence for confirmed dispatch records.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	// GetActiveByUser returns the newest booking still in the field, or nil.
	GetActiveByUser(userID string) (*models.Booking, error)
	ListByUser(userID string) ([]models.Booking, error)
	UpdateStatus(id string, status models.BookingStatus) error
}
