package http

import (
	"github.com/nats-io/nats.go"

	"github.com/aritzberg/wildsight/internal/adapters/postgres"
	"github.com/aritzberg/wildsight/internal/adapters/valkey"
	"github.com/aritzberg/wildsight/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sightings *usecases.SightingService
	Landmarks *usecases.LandmarkService
	Outposts  *usecases.OutpostService
	Weather   *usecases.WeatherService
	Dens      *usecases.DenService
	Scans     *usecases.ScanService
	Stats     *usecases.StatsService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
