package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/middleware"
	"github.com/lithium-edu/exam-rooms-api/internal/service"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
	"github.com/lithium-edu/exam-rooms-api/pkg/logger"
	"github.com/lithium-edu/exam-rooms-api/pkg/middleware/cors"
	"github.com/lithium-edu/exam-rooms-api/pkg/middleware/requestid"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Auth    *service.AuthService
	Metrics *service.Metrics

	Health  *HealthHandler
	Login   *AuthHandler
	Uploads *UploadHandler
	Exams   *ExamHandler
	Venues  *VenueHandler
	Exports *ExportHandler
}

// NewRouter wires middleware and routes onto a gin engine.
func NewRouter(cfg *config.Config, log *zap.Logger, deps Deps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		requestid.Middleware(),
		logger.GinMiddleware(log),
		cors.New(cfg.CORS.AllowedOrigins),
		middleware.Metrics(deps.Metrics),
	)

	engine.GET("/healthz", deps.Health.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", deps.Login.Login)

		// Anonymous uploads are allowed; a token just attributes the log entry.
		api.POST("/uploads", middleware.OptionalJWT(deps.Auth), deps.Uploads.Upload)
		api.GET("/uploads", deps.Uploads.History)

		api.GET("/exams", deps.Exams.List)
		api.GET("/exams/export", deps.Exports.Allocations)
		api.GET("/exams/:course_code", deps.Exams.Get)

		api.GET("/venues", deps.Venues.List)
		api.GET("/venues/:name", deps.Venues.Get)
		api.PUT("/venues/:name/capabilities", middleware.JWT(deps.Auth), deps.Venues.SetCapabilities)
	}

	return engine
}
