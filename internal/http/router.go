package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finance-tracker/internal/service"
)

// ReadinessFunc informa si las dependencias del servicio responden.
type ReadinessFunc func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas bajo /api.
func NewRouter(
	logger *zap.Logger,
	corsOrigins []string,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	expenseH *ExpenseHandler,
	groupH *GroupHandler,
	ready ReadinessFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), cors.New(corsConfig(corsOrigins)), jsonContentTypeMiddleware())

	r.GET("/healthz", healthHandler(logger, ready))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	protected := api.Group("", JWTAuthMiddleware(jwtSvc, userH.userServ))

	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.PUT("/me", userH.UpdateMe)
	users.GET("/search", userH.Search)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseH.Create)
	expenses.GET("", expenseH.List)
	expenses.GET("/:id", expenseH.Get)
	expenses.PUT("/:id", expenseH.Update)
	expenses.DELETE("/:id", expenseH.Delete)

	protected.GET("/dashboard/stats", expenseH.DashboardStats)

	groups := protected.Group("/shared-groups")
	groups.POST("", groupH.Create)
	groups.GET("", groupH.List)

	return r
}

// corsConfig con "*" refleja el origen en vez de responder "*", así las credenciales siguen siendo válidas.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func healthHandler(logger *zap.Logger, ready ReadinessFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
