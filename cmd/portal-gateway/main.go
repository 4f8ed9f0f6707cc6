package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mergington/portal-gateway/api/swagger"
	"github.com/mergington/portal-gateway/internal/handler"
	"github.com/mergington/portal-gateway/internal/middleware"
	"github.com/mergington/portal-gateway/internal/service"
	"github.com/mergington/portal-gateway/internal/session"
	"github.com/mergington/portal-gateway/internal/upstream"
	"github.com/mergington/portal-gateway/pkg/cache"
	"github.com/mergington/portal-gateway/pkg/config"
	"github.com/mergington/portal-gateway/pkg/logger"
	corsmiddleware "github.com/mergington/portal-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/mergington/portal-gateway/pkg/middleware/requestid"
)

// @title Mergington Portal Gateway
// @version 0.1.0
// @description Session-aware gateway in front of the extracurricular activities portal
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	portal := upstream.New(cfg.Upstream, logr, metricsSvc)

	sessionStore := session.NewRedisStore(redisClient, cfg.Session.TTL, logr)
	sessionMgr := session.NewManager(sessionStore, portal, cfg.Session, logr)

	catalogSvc := service.NewCatalogService(portal, sessionMgr, logr)
	announcementSvc := service.NewAnnouncementService(portal, sessionMgr, validator.New(), logr)

	var exportSvc *service.ExportService
	if cfg.Export.Enabled {
		exportSvc = service.NewExportService(catalogSvc)
	}

	authHandler := handler.NewAuthHandler(sessionMgr)
	catalogHandler := newCatalogHandler(catalogSvc, exportSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	viewHandler := handler.NewViewHandler(sessionMgr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Session(sessionMgr, cfg.Session))
	{
		api.GET("/catalog", catalogHandler.Browse)
		api.GET("/catalog/export", catalogHandler.Export)
		api.POST("/activities/:name/signup", catalogHandler.Signup)
		api.POST("/activities/:name/unregister", catalogHandler.Unregister)

		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", authHandler.Session)

		api.GET("/announcements/banner", announcementHandler.Banner)
		api.GET("/announcements", announcementHandler.List)
		api.POST("/announcements", announcementHandler.Create)
		api.PUT("/announcements/:id", announcementHandler.Update)
		api.DELETE("/announcements/:id", announcementHandler.Delete)
		api.POST("/confirmations/:token", announcementHandler.Confirm)

		api.GET("/view", viewHandler.State)
		api.POST("/view/modals/:name/open", viewHandler.Open)
		api.POST("/view/modals/:name/close", viewHandler.Close)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newCatalogHandler(catalog *service.CatalogService, export *service.ExportService) *handler.CatalogHandler {
	// a nil *ExportService must reach the handler as a nil interface
	if export == nil {
		return handler.NewCatalogHandler(catalog, nil)
	}
	return handler.NewCatalogHandler(catalog, export)
}
