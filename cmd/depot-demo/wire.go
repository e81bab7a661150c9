//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/TheBitDrifter/depot"
	"github.com/google/wire"
)

func initializeSimulation(catalog *depot.Catalog, c components, cfg depot.Config) (*simulation, error) {
	wire.Build(
		provideLogger,
		provideWorld,
		provideSystems,
		provideCasualtyListener,
		newSimulation,
	)
	return nil, nil
}
