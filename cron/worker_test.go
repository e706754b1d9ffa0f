package cron

import (
	"context"
	"encoding/json"
	"testing"

	"drutaseva/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	updates  []models.BookingStatus
}

func (f *fakeBookingRepo) Create(b *models.Booking) error { f.bookings[b.ID] = b; return nil }
func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	return f.bookings[id], nil
}
func (f *fakeBookingRepo) GetActiveByUser(string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingRepo) ListByUser(string) ([]models.Booking, error)     { return nil, nil }
func (f *fakeBookingRepo) UpdateStatus(id string, status models.BookingStatus) error {
	f.bookings[id].Status = status
	f.updates = append(f.updates, status)
	return nil
}

func progressTask(t *testing.T, bookingID string, current models.BookingStatus) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(progressPayload{BookingID: bookingID, Current: current})
	require.NoError(t, err)
	return asynq.NewTask(TypeBookingProgress, payload)
}

func TestProgressTaskAdvancesToCompletion(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[string]*models.Booking{
		"BK-1": {ID: "BK-1", Status: models.StatusInProgress},
	}}
	handler := handleProgressTask(repo, nil)

	err := handler(context.Background(), progressTask(t, "BK-1", models.StatusInProgress))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, repo.bookings["BK-1"].Status)
}

func TestProgressTaskDropsStaleStep(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[string]*models.Booking{
		"BK-1": {ID: "BK-1", Status: models.StatusArrived},
	}}
	handler := handleProgressTask(repo, nil)

	// A duplicate task for a step that already ran must not rewind the status.
	err := handler(context.Background(), progressTask(t, "BK-1", models.StatusOnWay))
	require.NoError(t, err)
	assert.Equal(t, models.StatusArrived, repo.bookings["BK-1"].Status)
	assert.Empty(t, repo.updates)
}

func TestProgressTaskSkipsCancelledBooking(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[string]*models.Booking{
		"BK-1": {ID: "BK-1", Status: models.StatusCancelled},
	}}
	handler := handleProgressTask(repo, nil)

	err := handler(context.Background(), progressTask(t, "BK-1", models.StatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, repo.bookings["BK-1"].Status)
	assert.Empty(t, repo.updates)
}

func TestProgressTaskDropsMissingBooking(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[string]*models.Booking{}}
	handler := handleProgressTask(repo, nil)

	err := handler(context.Background(), progressTask(t, "BK-gone", models.StatusOnWay))
	require.NoError(t, err)
}
