package router

import (
	"net/http"
	"time"

	"github.com/formgate/formgate-backend/config"
	apperrors "github.com/formgate/formgate-backend/errors"
	"github.com/formgate/formgate-backend/handlers"
	"github.com/formgate/formgate-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	SubmissionHandler *handlers.SubmissionHandler
	HealthHandler     *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and metrics
	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimit := middleware.ContactRateLimiter(
		deps.Config.RateLimit.ContactRequests,
		time.Duration(deps.Config.RateLimit.WindowMinutes)*time.Minute,
	)

	// Contact form: rate-limited submit plus diagnostics listing
	contact := r.Group("/api/contact")
	{
		contact.POST("/submit", rateLimit, deps.SubmissionHandler.SubmitContact)
		contact.GET("/submissions", deps.SubmissionHandler.ListContacts)
	}

	// Signup form; /signup/signup is a legacy alias kept for old clients
	r.POST("/api/signup", deps.SubmissionHandler.SubmitSignup)
	signup := r.Group("/api/signup")
	{
		signup.POST("/signup", deps.SubmissionHandler.SubmitSignup)
		signup.GET("/signups", deps.SubmissionHandler.ListSignups)
	}

	// Sub-domain contact form shares the contact rate-limit policy but keeps
	// its own window so the two forms do not consume each other's quota.
	subdomainRateLimit := middleware.ContactRateLimiter(
		deps.Config.RateLimit.ContactRequests,
		time.Duration(deps.Config.RateLimit.WindowMinutes)*time.Minute,
	)
	subdomain := r.Group("/subdomain-contact")
	{
		subdomain.POST("/submit", subdomainRateLimit, deps.SubmissionHandler.SubmitSubdomainContact)
		subdomain.GET("/submissions", deps.SubmissionHandler.ListSubdomainContacts)
	}

	// Generic fallback for unknown routes
	r.NoRoute(func(c *gin.Context) {
		appErr := apperrors.NotFound("Route")
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": appErr.Message,
		})
	})

	return r
}
