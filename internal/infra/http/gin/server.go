package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staycal/internal/infra/config"
	"staycal/internal/infra/obs"
)

type PropertyHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetPrices(c *gin.Context)
	ClearPrices(c *gin.Context)
	SetLock(c *gin.Context)
	SetArchived(c *gin.Context)
	UploadImage(c *gin.Context)
	ExportCalendar(c *gin.Context)
}

type ReservationHTTP interface {
	List(c *gin.Context)
	ListForProperty(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Conflicts(c *gin.Context)
}

type AvailabilityHTTP interface {
	Search(c *gin.Context)
	Month(c *gin.Context)
	Press(c *gin.Context)
}

type SubUserHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

type UserHTTP interface {
	List(c *gin.Context)
	Moderate(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Properties     PropertyHTTP
	Reservations   ReservationHTTP
	Availability   AvailabilityHTTP
	SubUsers       SubUserHTTP
	Users          UserHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.Health, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.Env, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine. It is split from NewServer so tests can
// drive it with httptest.
func NewRouter(env string, obsMW obs.Middleware, health obs.Health, h Handlers) *gin.Engine {
	mode := configureGinMode(env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", obs.RequestIDHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			obs.RequestIDHeader,
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
	if h.Properties != nil {
		props := api.Group("/properties")
		props.GET("", h.Properties.List)
		props.POST("", h.Properties.Create)
		props.GET("/:id", h.Properties.Get)
		props.PUT("/:id", h.Properties.Update)
		props.DELETE("/:id", h.Properties.Delete)
		props.POST("/:id/prices", h.Properties.SetPrices)
		props.DELETE("/:id/prices", h.Properties.ClearPrices)
		props.POST("/:id/lock", h.Properties.SetLock)
		props.POST("/:id/archive", h.Properties.SetArchived)
		props.PUT("/:id/image", h.Properties.UploadImage)
		props.GET("/:id/calendar.ics", h.Properties.ExportCalendar)
	}
	if h.Availability != nil {
		api.GET("/availability", h.Availability.Search)
		api.GET("/properties/:id/calendar", h.Availability.Month)
		api.POST("/properties/:id/selection", h.Availability.Press)
	}
	if h.Reservations != nil {
		api.GET("/properties/:id/reservations", h.Reservations.ListForProperty)
		api.GET("/reservations", h.Reservations.List)
		api.POST("/reservations", h.Reservations.Create)
		api.PUT("/reservations/:id", h.Reservations.Update)
		api.DELETE("/reservations/:id", h.Reservations.Delete)
		api.GET("/conflicts", h.Reservations.Conflicts)
	}
	if h.SubUsers != nil {
		api.GET("/subusers", h.SubUsers.List)
		api.POST("/subusers", h.SubUsers.Create)
		api.DELETE("/subusers/:id", h.SubUsers.Delete)
	}
	if h.Users != nil {
		api.GET("/users", h.Users.List)
		api.POST("/users/:id/:action", h.Users.Moderate)
	}
	return router
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
