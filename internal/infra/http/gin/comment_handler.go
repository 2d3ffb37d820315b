package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	commentapp "staybook/internal/app/handlers/comments"
	"staybook/internal/app/queries"
)

type CommentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type addCommentRequest struct {
	Body string `json:"body"`
}

func (h CommentHandler) Add(c *gin.Context) {
	author, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := commentapp.AddCommentCommand{
		ListingID: c.Param("id"),
		AuthorID:  author.ID,
		Body:      req.Body,
	}
	result, err := commands.Dispatch[commentapp.AddCommentCommand, *commentapp.AddCommentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h CommentHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := commentapp.ListCommentsQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[commentapp.ListCommentsQuery, []dto.Comment](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": c.Param("id"), "comments": result})
}

var _ CommentHTTP = CommentHandler{}
