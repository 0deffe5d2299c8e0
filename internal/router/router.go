package router

import (
	"github.com/gin-gonic/gin"

	"excelsaver/internal/config"
	"excelsaver/internal/handler"
	"excelsaver/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	invoiceH *handler.InvoiceHandler,
	columnH *handler.ColumnHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health check
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWT))

	// Invoice routes. The export route is registered before :id so Gin
	// does not treat "export" as an invoice ID.
	invoices := v1.Group("/invoices")
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.ExportCSV)
	invoices.POST("", invoiceH.Create)
	invoices.POST("/scan", invoiceH.Scan)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.DELETE("/:id", invoiceH.Delete)

	// Column preference routes
	cols := v1.Group("/columns")
	cols.GET("", columnH.Get)
	cols.PUT("", columnH.Replace)
	cols.POST("/:key/move", columnH.Move)
	cols.PUT("/:key/visibility", columnH.SetVisibility)

	return r
}
