package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORS headers sent on every response
const (
	AllowOrigin  = "*"
	AllowMethods = "POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

// CORS middleware for handling Cross-Origin Resource Sharing.
// Preflight requests are answered with 200 and an empty body.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", AllowOrigin)
		c.Header("Access-Control-Allow-Methods", AllowMethods)
		c.Header("Access-Control-Allow-Headers", AllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// Recovery turns a panic into a 500 carrying the panic message
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := fmt.Sprint(recovered)

		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      message,
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
	})
}
