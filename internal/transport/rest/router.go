package rest

import (
	"time"

	"inventoryservice/internal/config"
	"inventoryservice/internal/platform/observability"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// NewRouter registers the product API and the health check.
func NewRouter(products *ProductHandler, logger observability.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.ServiceName))
	r.Use(requestLogger(logger))

	r.GET("/health", products.Health)

	api := r.Group("/api/v1/products")
	api.GET("", products.List)
	api.POST("", products.Create)
	api.GET("/:id", products.Get)
	api.PUT("/:id", products.Replace)
	api.PATCH("/:id/quantity", products.SetQuantity)
	api.DELETE("/:id", products.Delete)

	return r
}

func requestLogger(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error("❌ HTTP request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Info("🌐 HTTP request", fields...)
	}
}
