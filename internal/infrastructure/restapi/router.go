package restapi

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configures and returns the Gin engine.
func SetupRouter(wealthHandler *WealthHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(zapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/makers/:address/wealth", wealthHandler.GetWealthHandler)
		v1.POST("/makers/:address/wealth/collect", wealthHandler.CollectWealthHandler)
	}

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	return router
}

// zapLoggerMiddleware logs every request with method, path, status and
// latency.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	accessLogger := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		accessLogger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", c.ClientIP()))
	}
}
