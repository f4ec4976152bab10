// Package app provides router configuration.
package app

import (
	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/http"
	"github.com/guttosm/assembly-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	opts := []http.HandlerOption{
		http.WithBoxCacheTTL(cfg.Cache.BoxListTTL),
	}

	if dbComponents != nil {
		opts = append(opts, http.WithEventLog(dbComponents.EventLog, dbComponents.EventWriter))
	}

	// Catalog writes need the database; without it the plan endpoint still
	// works against the built-in boxes, but the CRUD routes stay unregistered.
	var catalogService service.BoxService
	handlerCatalog := service.NewStaticBoxService(service.DefaultBoxes())
	if dbComponents != nil {
		catalogService = dbComponents.BoxService
		handlerCatalog = catalogService
	}

	handler := http.NewHandler(services.Sessions, services.Planner, handlerCatalog, opts...)
	healthHandler := http.NewHealthHandler()

	if dbComponents != nil {
		if dbComponents.BoxesCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_boxes", dbComponents.BoxesCircuitBreaker)
		}
		if dbComponents.ProductsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_products", dbComponents.ProductsCircuitBreaker)
		}
		if dbComponents.EventsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_events", dbComponents.EventsCircuitBreaker)
		}
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		BoxService:        catalogService,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
