package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/repository/snapshot"
	"pos-terminal/internal/session"
)

// Deps carries everything the routes need.
type Deps struct {
	Session   *session.Session
	Backend   *backend.Client
	Store     *snapshot.SQLite
	Hub       *Hub
	JWTSecret string
}

// buildRouter wires the terminal API.
func buildRouter(logger *log.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	if deps.Hub != nil {
		router.GET("/ws", deps.Hub.handle)
	}

	h := posHandlers{session: deps.Session, backend: deps.Backend, logger: logger}

	api := router.Group("/api/pos", authMiddleware(deps.JWTSecret, roleAdmin, roleStaff))
	{
		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addItem)
		api.POST("/cart/items/:index/adjust", h.adjustQuantity)
		api.PUT("/cart/items/:index", h.editItem)
		api.DELETE("/cart/items/:index", h.removeItem)
		api.POST("/cart/clear", h.clearCart)
		api.PUT("/cart/cash", h.setCash)
		api.PUT("/cart/surcharge", h.setSurcharge)

		api.POST("/context/table/:id", h.selectTable)
		api.POST("/context/takeaway", h.selectTakeAway)

		api.POST("/kitchen/notify", h.notifyKitchen)
		api.POST("/checkout", h.checkout)

		api.GET("/products", h.listProducts)
		api.GET("/tables", h.listTables)
	}

	return router
}
