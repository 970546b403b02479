package router

import (
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/config"
	"github.com/bolivianotech/consulta-aulas-backend/internal/handler"
	"github.com/bolivianotech/consulta-aulas-backend/internal/middleware"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// catalogMaxAge is the browser cache window for the teacher catalog, well
// inside the Redis TTL so clients never see older data than the server does.
const catalogMaxAge = 60

// Handlers groups all handler instances for route setup.
type Handlers struct {
	System     *handler.SystemHandler
	Lookup     *handler.LookupHandler
	Assignment *handler.AssignmentHandler
	Upload     *handler.UploadHandler
	Export     *handler.ExportHandler
	Audit      *handler.AuditHandler
	Session    *handler.SessionHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so the kiosk pages work without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Client-Id", "X-User-Agent", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and the response envelope share it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Actor headers feed the audit trail and the session monitor.
	router.Use(middleware.ActorContext())

	// Rate limiter for workbook uploads.
	uploadLimiter := middleware.NewRateLimiter(cfg.UploadRateLimit, time.Minute)

	router.GET("/", handlers.System.Root)

	// ─── Public Group ──────────────────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/health", handlers.System.Health)
		api.GET("/docentes", middleware.CacheControl(catalogMaxAge), handlers.Lookup.Docentes)
		api.GET("/sugerencias", handlers.Lookup.Sugerencias)
		api.GET("/consulta", handlers.Lookup.Consulta)
		api.GET("/aulas", handlers.Lookup.Aulas)
	}

	// ─── Admin Group ───────────────────────────────────────────────────
	admin := router.Group("/api/admin")
	admin.Use(middleware.NoStore())
	{
		admin.GET("/registros", handlers.Assignment.ListRegistros)
		admin.POST("/registros", handlers.Assignment.CreateRegistro)
		admin.GET("/registros/:id", handlers.Assignment.GetRegistro)
		admin.PUT("/registros/:id", handlers.Assignment.UpdateRegistro)
		admin.DELETE("/registros/:id", handlers.Assignment.DeleteRegistro)

		admin.POST("/upload", uploadLimiter.Middleware(), handlers.Upload.Upload)
		admin.GET("/export", handlers.Export.Export)
		admin.GET("/auditoria", handlers.Audit.ListAuditoria)

		admin.POST("/session/heartbeat", handlers.Session.Heartbeat)
		admin.GET("/session/active", handlers.Session.Active)
	}

	return router
}
