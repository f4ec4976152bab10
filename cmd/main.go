// Package main is the entry point for the assembly-service application.
//
// @title           Assembly Service API
// @version         1.0.0
// @description     API for running order assembly sessions: expanding kits into
//
//	checklist items, planning shipping boxes, and validating barcode scans and
//	scale weights against the plan.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/assembly-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Sessions
// @tag.description Assembly session lifecycle, scans and weights
//
// @tag.name        Packs
// @tag.description Box planning operations
//
// @tag.name        Boxes
// @tag.description Box catalog management
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/assembly-service/docs" // swagger docs

	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port)

	err := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Shutdown(ctx)

	if err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
