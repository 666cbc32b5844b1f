package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	accountshttp "github.com/metalsdesk/admin-api/internal/domains/accounts/adapters/http"
	accountsports "github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
	cataloghttp "github.com/metalsdesk/admin-api/internal/domains/catalog/adapters/http"
	catalogports "github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	custodyhttp "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/http"
	custodyports "github.com/metalsdesk/admin-api/internal/domains/custody/ports"
)

// NewRouter assembles the gin engine: public auth and health routes, then
// the authenticated API surface under /api/v1.
func NewRouter(serviceName string, accounts accountsports.Service, custody custodyports.Service, catalog catalogports.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accountsHandler := accountshttp.NewHandler(accounts)

	public := router.Group("/api/v1")
	accountsHandler.Register(public)

	protected := router.Group("/api/v1")
	protected.Use(accountshttp.Middleware(accounts))
	accountsHandler.RegisterProtected(protected)
	custodyhttp.NewHandler(custody).Register(protected)
	cataloghttp.NewHandler(catalog).Register(protected)

	return router
}
