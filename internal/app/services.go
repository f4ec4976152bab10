// Package app provides service initialization.
package app

import (
	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/service"
)

// ServiceComponents holds the assembly engine components.
type ServiceComponents struct {
	Sessions service.SessionService
	Planner  service.BoxPlanner
}

// InitializeServices builds the assembly engine: set expander, box planner,
// box allocator and the session service that ties them together. The product
// resolver and box catalog come from the database components when MongoDB is
// enabled; otherwise the expander falls back to category weights and the
// catalog is the built-in default.
func InitializeServices(cfg config.Config, dbComponents *DatabaseComponents) *ServiceComponents {
	var resolver service.ProductResolver = service.NewProductCatalogResolver(nil)
	var catalog service.BoxCatalog = service.StaticBoxCatalog(service.DefaultBoxes())

	if dbComponents != nil {
		resolver = dbComponents.ProductResolver
		catalog = dbComponents.BoxService
	}

	if cfg.Cache.Size > 0 {
		resolver = service.NewCachedProductResolver(resolver, cfg.Cache.Size, cfg.Cache.TTL)
	}

	expander := service.NewSetExpanderService(resolver,
		service.WithMaxKitDepth(cfg.Engine.MaxKitDepth),
	)
	planner := service.NewBoxPlannerService()
	allocator := service.NewBoxAllocatorService(
		service.WithHeavyUnitThreshold(cfg.Engine.HeavyUnitThreshold),
		service.WithMaxBoxWeight(cfg.Engine.MaxBoxWeight),
	)

	sessionCfg := service.SessionConfig{
		SettleDelay:         cfg.Engine.SettleDelay,
		RetryDelay:          cfg.Engine.RetryDelay,
		ScanCooldown:        cfg.Engine.ScanCooldown,
		DisableScanCooldown: cfg.Engine.DisableScanCooldown,
		Tolerance:           cfg.Engine.ToleranceSettings(),
		SpikeThreshold:      cfg.Engine.SpikeThreshold,
		SampleCacheDuration: cfg.Engine.SampleCacheDuration,
		PollInterval:        cfg.Engine.PollInterval,
	}

	sessions := service.NewSessionService(expander, planner, allocator, catalog, service.NewRealClock(), sessionCfg)

	return &ServiceComponents{
		Sessions: sessions,
		Planner:  planner,
	}
}
