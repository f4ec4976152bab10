// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/http"
)

// App holds the wired application: the HTTP router plus the resources that
// need an orderly shutdown.
type App struct {
	Router *gin.Engine

	dbComponents *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *App {
	// Initialize logger first (needed by other components)
	InitializeLogger()

	// Initialize database components (MongoDB repositories and services)
	dbComponents := InitializeDatabase(cfg)

	// Initialize the assembly engine
	serviceComponents := InitializeServices(cfg, dbComponents)

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &App{
		Router:       http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		dbComponents: dbComponents,
	}
}

// Shutdown flushes pending events and releases database resources.
func (a *App) Shutdown(ctx context.Context) {
	a.dbComponents.Close(ctx)
}
