package models

import "time"

// BookingStatus tracks a dispatched ambulance through its lifecycle.
type BookingStatus string

const (
	StatusOnWay      BookingStatus = "on-way"
	StatusArrived    BookingStatus = "arrived"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Active reports whether the booking still has an ambulance in the field.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusOnWay, StatusArrived, StatusInProgress:
		return true
	}
	return false
}

// Next returns the following lifecycle stage, or the same status for terminal states.
func (s BookingStatus) Next() BookingStatus {
	switch s {
	case StatusOnWay:
		return StatusArrived
	case StatusArrived:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	}
	return s
}

// Booking represents a confirmed dispatch record.
type Booking struct {
	ID             string          `bson:"id" json:"id"`
	UserID         string          `bson:"user_id" json:"userId"`
	PickupLocation string          `bson:"pickup_location" json:"pickupLocation"`
	Destination    string          `bson:"destination" json:"destination"`
	ServiceType    string          `bson:"service_type" json:"serviceType"`
	AmbulanceName  string          `bson:"ambulance_name" json:"ambulanceName"`
	Vehicle        AssignedVehicle `bson:"vehicle" json:"vehicle"`
	PaymentMethod  PaymentMethod   `bson:"payment_method" json:"paymentMethod"`
	Price          int             `bson:"price" json:"price"`
	Status         BookingStatus   `bson:"status" json:"status"`
	EstimatedTime  string          `bson:"estimated_time" json:"estimatedTime"`
	CreatedAt      time.Time       `bson:"created_at" json:"createdAt"`
}
