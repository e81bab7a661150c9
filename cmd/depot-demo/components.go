package main

import "github.com/TheBitDrifter/depot"

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

// components holds the ids of the demo component types.
type components struct {
	position depot.AccessibleComponent[Position]
	velocity depot.AccessibleComponent[Velocity]
	health   depot.AccessibleComponent[Health]
}

// registerComponents fills catalog once at startup; worlds on every goroutine
// share it read-only afterwards.
func registerComponents(catalog *depot.Catalog) (components, error) {
	var c components
	var err error
	if c.position, err = depot.FactoryNewComponent[Position](catalog); err != nil {
		return components{}, err
	}
	if c.velocity, err = depot.FactoryNewComponent[Velocity](catalog); err != nil {
		return components{}, err
	}
	if c.health, err = depot.FactoryNewComponent[Health](catalog); err != nil {
		return components{}, err
	}
	return c, nil
}
