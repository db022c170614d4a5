package middleware

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// SilentLogger is a request logger that drops entries for client
// disconnects, which otherwise flood the log when a frontend cancels
// an export download.
func SilentLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		for _, e := range c.Errors {
			if errors.Is(e.Err, syscall.EPIPE) || errors.Is(e.Err, syscall.ECONNRESET) {
				return
			}
		}

		fmt.Printf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}
