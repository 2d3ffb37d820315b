package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	reservationapp "staybook/internal/app/handlers/reservations"
)

type ReservationHandler struct {
	Commands commands.Bus
}

type createReservationRequest struct {
	ListingID string    `json:"listing_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	guest, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationapp.CreateReservationCommand{
		CommandID:       generateCommandID(),
		ListingID:       req.ListingID,
		GuestID:         guest.ID,
		Start:           req.StartDate,
		End:             req.EndDate,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reservationapp.CreateReservationCommand, *reservationapp.CreateReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ ReservationHTTP = ReservationHandler{}
