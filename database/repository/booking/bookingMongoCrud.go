// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"fmt"
	"time"

	"drutaseva/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// UpdateStatus moves a booking to the given lifecycle status.
func (r *MongoBookingRepo) UpdateStatus(id string, status models.BookingStatus) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"status": status}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking with id %s not found", id)
	}
	return nil
}
