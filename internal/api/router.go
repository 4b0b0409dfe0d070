package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"labinventory-backend/config"
	"labinventory-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, tokens mw.TokenVerifier, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)
	invalidate := mw.Invalidate(cacheStore)
	requireAuth := mw.Auth(tokens)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))
	{
		api.POST("/auth/login", h.Login)

		api.GET("/labs", caching, h.ListLabs)
		api.GET("/labs/:id", caching, h.GetLab)
		api.POST("/labs", requireAuth, invalidate, h.CreateLab)

		api.GET("/assets", caching, h.ListAssets)
		api.GET("/assets/:id", caching, h.GetAsset)
		api.POST("/assets", requireAuth, invalidate, h.CreateAsset)

		api.POST("/import/excel", requireAuth, invalidate, h.ImportExcel)
		api.GET("/import/excel", requireAuth, h.ExportExcel)
	}

	return r
}
