package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	ratingapp "staybook/internal/app/handlers/ratings"
)

type RatingHandler struct {
	Commands commands.Bus
}

type submitRatingRequest struct {
	Value int `json:"value"`
}

func (h RatingHandler) Submit(c *gin.Context) {
	rater, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ratingapp.SubmitRatingCommand{
		ListingID: c.Param("id"),
		UserID:    rater.ID,
		Value:     req.Value,
	}
	result, err := commands.Dispatch[ratingapp.SubmitRatingCommand, *ratingapp.SubmitRatingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ RatingHTTP = RatingHandler{}
