package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides enhanced CORS configuration
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:4320",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:4321",
			"http://127.0.0.1:4320",
			"http://[::1]:3000", // IPv6 localhost
			"http://[::1]:4321", // IPv6 localhost
			"http://[::1]:4320", // IPv6 localhost
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "X-Request-ID",
			"Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}

	return cors.New(config)
}
