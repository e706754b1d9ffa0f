// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"fmt"
	"time"

	"drutaseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a booking by its unique ID. Returns nil if not found.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// GetActiveByUser returns the user's newest booking whose ambulance is still in
// the field, or nil when there is none.
func (r *MongoBookingRepo) GetActiveByUser(userID string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"status": bson.M{"$in": []models.BookingStatus{
			models.StatusOnWay, models.StatusArrived, models.StatusInProgress,
		}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active booking for user %s: %w", userID, err)
	}
	return &booking, nil
}

// ListByUser returns all bookings for a user, newest first.
func (r *MongoBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}
