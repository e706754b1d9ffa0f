package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"drutaseva/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubBookingRepo struct {
	active  *models.Booking
	history []models.Booking
	updated []models.BookingStatus
}

func (s *stubBookingRepo) Create(*models.Booking) error { return nil }
func (s *stubBookingRepo) GetByID(id string) (*models.Booking, error) {
	if s.active != nil && s.active.ID == id {
		return s.active, nil
	}
	return nil, nil
}
func (s *stubBookingRepo) GetActiveByUser(string) (*models.Booking, error) { return s.active, nil }
func (s *stubBookingRepo) ListByUser(string) ([]models.Booking, error)     { return s.history, nil }
func (s *stubBookingRepo) UpdateStatus(_ string, status models.BookingStatus) error {
	s.updated = append(s.updated, status)
	return nil
}

func newRescueRouter(repo *stubBookingRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &RescueHandler{Repo: repo}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "user-1") })
	r.GET("/active", h.GetActive)
	r.GET("/history", h.GetHistory)
	r.GET("/:bookingID", h.GetByID)
	r.DELETE("/:bookingID", h.Cancel)
	return r
}

func TestGetActiveEmptyStateIsNotAnError(t *testing.T) {
	r := newRescueRouter(&stubBookingRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/active", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"booking": null}`, w.Body.String())
}

func TestGetActiveReturnsCurrentBooking(t *testing.T) {
	repo := &stubBookingRepo{active: &models.Booking{
		ID:     "BK-AAAA1111",
		UserID: "user-1",
		Status: models.StatusOnWay,
	}}
	r := newRescueRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/active", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BK-AAAA1111")
	assert.Contains(t, w.Body.String(), string(models.StatusOnWay))
}

func TestGetHistoryEmptyList(t *testing.T) {
	r := newRescueRouter(&stubBookingRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookings": []}`, w.Body.String())
}

func TestGetByIDHidesOtherRidersBookings(t *testing.T) {
	repo := &stubBookingRepo{active: &models.Booking{
		ID:     "BK-AAAA1111",
		UserID: "someone-else",
		Status: models.StatusOnWay,
	}}
	r := newRescueRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/BK-AAAA1111", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelActiveBooking(t *testing.T) {
	repo := &stubBookingRepo{active: &models.Booking{
		ID:     "BK-AAAA1111",
		UserID: "user-1",
		Status: models.StatusOnWay,
	}}
	r := newRescueRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/BK-AAAA1111", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.BookingStatus{models.StatusCancelled}, repo.updated)
}

func TestCancelCompletedBookingConflicts(t *testing.T) {
	repo := &stubBookingRepo{active: &models.Booking{
		ID:     "BK-AAAA1111",
		UserID: "user-1",
		Status: models.StatusCompleted,
	}}
	r := newRescueRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/BK-AAAA1111", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, repo.updated)
}
