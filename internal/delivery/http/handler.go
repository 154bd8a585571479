package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "booking-flow/docs"
	"booking-flow/internal/models"
	"booking-flow/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Authenticator is the sign-in boundary.
type Authenticator interface {
	SignUp(ctx context.Context, f models.SignUpForm) (models.Account, error)
	SignIn(ctx context.Context, f models.SignInForm) (models.Account, error)
}

type Handler struct {
	svc  service.Booking
	auth Authenticator
}

func NewHandler(s service.Booking, a Authenticator) *Handler {
	return &Handler{svc: s, auth: a}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.SignUp)
			auth.POST("/signin", h.SignIn)
		}

		flows := api.Group("/flows")
		{
			flows.POST("", h.OpenFlow)
			flows.GET("/:id", h.GetFlow)
			flows.PATCH("/:id", h.PatchFlow)
			flows.POST("/:id/next", h.NextStep)
			flows.POST("/:id/back", h.PrevStep)
			flows.POST("/:id/submit", h.SubmitFlow)
			flows.POST("/:id/reset", h.ResetFlow)
			flows.POST("/:id/dismiss", h.DismissError)
			flows.GET("/:id/handoff", h.GetHandoff)
			flows.DELETE("/:id", h.CloseFlow)
		}

		api.POST("/quotes/:kind", h.GetQuote)

		api.GET("/bookings", h.GetAllBookings)
		api.GET("/bookings/:id", h.GetBookingById)
		api.GET("/confirmations", h.GetConfirmations)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
