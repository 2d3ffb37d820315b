package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

// respondDomainError maps domain failures onto HTTP statuses: invalid
// input is 400, missing aggregates 404, contested dates 409, everything
// else a generic 500 without leaking internals.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, daterange.ErrEndBeforeStart),
		errors.Is(err, ratings.ErrValueOutOfRange),
		errors.Is(err, comments.ErrEmptyBody),
		errors.Is(err, reservation.ErrGuestRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, listings.ErrNotFound),
		errors.Is(err, reservation.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrDateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
