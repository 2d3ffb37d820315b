package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	tripsapp "staybook/internal/app/handlers/trips"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	domainuser "staybook/internal/domain/user"
)

const maxAvatarSize = 5 << 20

type MeHandler struct {
	Queries queries.Bus
	Auth    *authsvc.Service
}

func (h MeHandler) Trips(c *gin.Context) {
	guest, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := tripsapp.ListTripsQuery{GuestID: guest.ID}
	result, err := queries.Ask[tripsapp.ListTripsQuery, []dto.Trip](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": result})
}

// UpdateAvatar accepts the raw image in the request body and stores it
// through the configured uploader.
func (h MeHandler) UpdateAvatar(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	if c.Request.ContentLength > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "avatar too large"})
		return
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarSize)
	account, err := h.Auth.UpdateAvatar(
		c.Request.Context(),
		domainuser.ID(p.ID),
		c.ContentType(),
		c.Request.ContentLength,
		body,
	)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromDomain(account))
}

var _ MeHTTP = MeHandler{}
