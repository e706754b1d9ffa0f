package handlers

import (
	"net/http"

	"drutaseva/middleware"
	"drutaseva/models"
	"drutaseva/services/booking"
	"drutaseva/services/geo"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard over HTTP.
type BookingHandler struct {
	Service booking.WizardService
	Intents *booking.IntentStore
	Geo     geo.Geocoder
}

// GetCatalog lists the ambulance tiers. Public: the rider sees choices before
// signing in.
func (h *BookingHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": booking.AmbulanceOptions()})
}

// StartSession opens a fresh wizard session for the authenticated rider. The
// response carries the caller's city when the geolocation middleware resolved
// one, so the client can prefill the location step.
func (h *BookingHandler) StartSession(c *gin.Context) {
	userID := c.GetString("userID")

	session, err := h.Service.StartSession(c.Request.Context(), userID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	resp := gin.H{"session": session}
	if geoVal, ok := c.Get("geoLocation"); ok {
		if geo, ok := geoVal.(*middleware.GeoLocation); ok && geo.City != "" {
			resp["suggestedCity"] = geo.City
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession returns the current wizard state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SetLocation records pickup and destination on the session. Either field may
// arrive as a free-text address or as a map pin, which is reverse-geocoded
// into an address before the session is updated.
func (h *BookingHandler) SetLocation(c *gin.Context) {
	var input struct {
		PickupLocation   string              `json:"pickupLocation"`
		Destination      string              `json:"destination"`
		PickupPoint      *geo.PointSelection `json:"pickupPoint"`
		DestinationPoint *geo.PointSelection `json:"destinationPoint"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	if input.PickupLocation == "" && input.PickupPoint != nil && h.Geo != nil {
		addr, err := h.Geo.Geocode(ctx, *input.PickupPoint)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Could not resolve pickup point", err.Error())
			return
		}
		input.PickupLocation = addr
	}
	if input.Destination == "" && input.DestinationPoint != nil && h.Geo != nil {
		addr, err := h.Geo.Geocode(ctx, *input.DestinationPoint)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Could not resolve destination point", err.Error())
			return
		}
		input.Destination = addr
	}

	session, err := h.Service.SetLocation(ctx, c.Param("sessionID"), input.PickupLocation, input.Destination)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectAmbulance picks a tier from the catalog.
func (h *BookingHandler) SelectAmbulance(c *gin.Context) {
	var input struct {
		ServiceType string `json:"serviceType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	session, err := h.Service.SelectAmbulance(c.Request.Context(), c.Param("sessionID"), input.ServiceType)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ConfirmPayment finalizes the wizard. Cash confirms the booking directly;
// other methods return a gateway handoff the client must complete.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	outcome, err := h.Service.ConfirmPayment(c.Request.Context(), c.Param("sessionID"), models.PaymentMethod(input.PaymentMethod))
	if err != nil {
		respondWizardError(c, err)
		return
	}

	if outcome.Handoff != nil {
		c.JSON(http.StatusOK, gin.H{"handoff": outcome.Handoff})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": outcome.Booking})
}

// GatewayCallback completes a booking whose payment went through the gateway.
func (h *BookingHandler) GatewayCallback(c *gin.Context) {
	var input struct {
		GatewayRef string `json:"gatewayRef" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	confirmed, err := h.Service.CompleteGatewayPayment(c.Request.Context(), c.Param("sessionID"), input.GatewayRef)
	if err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": confirmed})
}

// CancelSession abandons the wizard without dispatching.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

// SaveIntent stashes a pre-auth booking draft so an anonymous rider can resume
// after signing in. Public by design.
func (h *BookingHandler) SaveIntent(c *gin.Context) {
	var input struct {
		DeviceID       string `json:"deviceId" binding:"required"`
		PickupLocation string `json:"pickupLocation"`
		Destination    string `json:"destination"`
		ServiceType    string `json:"serviceType"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	intent := models.BookingIntent{
		PickupLocation: input.PickupLocation,
		Destination:    input.Destination,
		ServiceType:    input.ServiceType,
	}
	if err := h.Intents.Save(c.Request.Context(), input.DeviceID, intent); err != nil {
		respondWizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking intent saved"})
}

// ClaimIntent hands back the saved draft exactly once after sign-in.
func (h *BookingHandler) ClaimIntent(c *gin.Context) {
	deviceID := c.Param("deviceID")

	intent, err := h.Intents.Claim(c.Request.Context(), deviceID)
	if err != nil {
		respondWizardError(c, err)
		return
	}

	getLogger(c).Info("Booking intent claimed",
		zap.String("deviceID", deviceID),
		zap.String("userID", c.GetString("userID")))
	c.JSON(http.StatusOK, gin.H{"intent": intent})
}
