package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type ListingHTTP interface {
	Detail(c *gin.Context)
	BlockedDates(c *gin.Context)
	Rating(c *gin.Context)
}

type ReservationHTTP interface {
	Create(c *gin.Context)
}

type RatingHTTP interface {
	Submit(c *gin.Context)
}

type CommentHTTP interface {
	Add(c *gin.Context)
	List(c *gin.Context)
}

type MeHTTP interface {
	Trips(c *gin.Context)
	UpdateAvatar(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Listing        ListingHTTP
	Reservation    ReservationHTTP
	Rating         RatingHTTP
	Comment        CommentHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Listing != nil {
		api.GET("/listings/:id/detail", h.Listing.Detail)
		api.GET("/listings/:id/blocked-dates", h.Listing.BlockedDates)
		api.GET("/listings/:id/rating", h.Listing.Rating)
	}
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Create)
	}
	if h.Rating != nil {
		api.POST("/listings/:id/rating", h.Rating.Submit)
	}
	if h.Comment != nil {
		api.GET("/listings/:id/comments", h.Comment.List)
		api.POST("/listings/:id/comments", h.Comment.Add)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/trips", h.Me.Trips)
		meGroup.PUT("/avatar", h.Me.UpdateAvatar)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
