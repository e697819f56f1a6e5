package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"carhaul_tracker/internal/middleware"
	"carhaul_tracker/internal/services"
)

// SetupRouter builds the HTTP API over fleet. Request logs go to accessLog;
// corsOrigins restricts cross-origin callers (empty allows any).
func SetupRouter(fleet *services.Fleet, accessLog io.Writer, corsOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(accessLog),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
	))
	r.Use(middleware.CORS(corsOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	DriverRoutes(r, fleet)
	ArchiveRoutes(r, fleet)

	return r
}
