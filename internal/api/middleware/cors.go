package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the admin front ends in domains. With no domain
// configured every origin is allowed, without credentials.
func ConfigCORS(domains []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(domains) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = domains
		conf.AllowCredentials = true
	}

	return cors.New(conf)
}
