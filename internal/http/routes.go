package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/assembly-service/internal/service"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// AssemblyRoutes handles session, planning and box catalog route registration.
type AssemblyRoutes struct {
	handler      *Handler
	boxesHandler *BoxesHandler
}

// NewAssemblyRoutes creates a new AssemblyRoutes instance.
func NewAssemblyRoutes(handler *Handler, boxService service.BoxService) *AssemblyRoutes {
	var boxesHandler *BoxesHandler
	if boxService != nil {
		boxesHandler = NewBoxesHandler(boxService, handler)
	}

	return &AssemblyRoutes{
		handler:      handler,
		boxesHandler: boxesHandler,
	}
}

// RegisterRoutes registers the assembly API routes.
func (r *AssemblyRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.POST("/sessions", r.handler.CreateSession)
	rg.GET("/sessions/:id", r.handler.GetSession)
	rg.DELETE("/sessions/:id", r.handler.DeleteSession)
	rg.POST("/sessions/:id/scans", r.handler.Scan)
	rg.POST("/sessions/:id/weights", r.handler.Weight)
	rg.POST("/sessions/:id/reset", r.handler.Reset)
	rg.PUT("/sessions/:id/active-box", r.handler.SetActiveBox)
	rg.GET("/sessions/:id/events", r.handler.SessionEvents)

	rg.POST("/packs/plan", r.handler.PlanBoxes)

	if r.boxesHandler != nil {
		rg.GET("/boxes", r.boxesHandler.ListActiveBoxes)
		rg.POST("/boxes", r.boxesHandler.CreateBox)
		rg.PUT("/boxes/:id", r.boxesHandler.UpdateBox)
		rg.GET("/boxes/history", r.boxesHandler.ListBoxHistory)
	}
}

// GetHandler returns the underlying session handler.
func (r *AssemblyRoutes) GetHandler() *Handler {
	return r.handler
}
