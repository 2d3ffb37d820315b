package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	listingapp "staybook/internal/app/handlers/listings"
	ratingapp "staybook/internal/app/handlers/ratings"
	"staybook/internal/app/queries"
)

type ListingHandler struct {
	Queries queries.Bus
}

// Detail serves the aggregated listing page. The viewer is optional:
// anonymous requests simply get no my_rating field.
func (h ListingHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	viewerID := ""
	if p, ok := currentPrincipal(c); ok {
		viewerID = p.ID
	}
	query := listingapp.GetListingDetailQuery{
		ListingID: c.Param("id"),
		ViewerID:  viewerID,
	}
	result, err := queries.Ask[listingapp.GetListingDetailQuery, *dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) BlockedDates(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.GetBlockedDatesQuery{ListingID: c.Param("id")}
	days, err := queries.Ask[listingapp.GetBlockedDatesQuery, []time.Time](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": c.Param("id"), "blocked_dates": dates})
}

func (h ListingHandler) Rating(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	viewerID := ""
	if p, ok := currentPrincipal(c); ok {
		viewerID = p.ID
	}
	query := ratingapp.GetListingRatingQuery{
		ListingID: c.Param("id"),
		ViewerID:  viewerID,
	}
	result, err := queries.Ask[ratingapp.GetListingRatingQuery, *dto.ListingRating](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
