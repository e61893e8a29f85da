package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"bid-wiser.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	accountHandler *handlers.AccountHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			// Public
			users.POST("/register", d.accountHandler.Register)
			users.POST("/login", d.accountHandler.Login)
			users.POST("/verify", d.accountHandler.VerifyAccount)
			users.POST("/resend-otp", d.accountHandler.ResendOTP)
			users.GET("/leaderboard", d.accountHandler.Leaderboard)

			// Protected
			users.GET("/me", d.authMiddleware, d.accountHandler.GetMe)
			users.GET("/logout", d.authMiddleware, d.accountHandler.Logout)
		}
	}
}

// applyCORSMiddleware echoes the caller's origin so credentialed requests from
// the frontend work without a wildcard.
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bid-wiser-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
