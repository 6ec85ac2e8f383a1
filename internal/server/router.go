package server

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
)

// Exporter renders a user's contracts as an XLSX workbook.
type Exporter interface {
	ExportContractsXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Contracts *contracts.Service
	Exporter  Exporter
	Health    *HealthChecker
	Logger    *slog.Logger
	Server    common.ServerConfig
	RateLimit common.RateLimitConfig
}

// NewRouter builds the gin engine with middleware and every contract route.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &handlers{
		contracts:      d.Contracts,
		exporter:       d.Exporter,
		logger:         d.Logger,
		maxUploadBytes: d.Server.MaxUploadBytes,
	}

	r := gin.New()
	r.Use(RequestID(d.Logger))
	r.Use(Recovery(d.Logger))
	r.Use(RequestLogger(d.Logger))
	r.Use(RateLimit(d.RateLimit, d.Logger))

	if d.Health != nil {
		r.GET("/health", d.Health.Handle)
	}

	g := r.Group("/contracts")
	{
		g.POST("/upload", h.upload)
		g.POST("/save", h.save)
		g.GET("/user/:userId", h.listByUser)
		g.GET("/user/:userId/upcoming-renewals", h.upcomingRenewals)
		g.GET("/user/:userId/export", h.export)
		g.GET("/:id", h.get)
		g.PUT("/:id", h.update)
		g.POST("/:id/reminder", h.scheduleReminder)
		g.GET("/:id/reminder/status", h.reminderStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, common.NewNotFoundError("Route not found"))
	})
	return r
}
