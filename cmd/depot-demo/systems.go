package main

import (
	"github.com/TheBitDrifter/depot"
)

const (
	arenaSize     = 100.0
	boundsDamage  = 5
	regenPerTick  = 1
	initialHealth = 100
)

type movementSystem struct {
	depot.BaseSystem
}

func newMovementSystem(c components) *movementSystem {
	s := &movementSystem{}
	s.AddComponentType(c.position.ID)
	s.AddComponentType(c.velocity.ID)
	return s
}

func (s *movementSystem) UpdateComponents(delta float32, components []any) {
	pos := depot.Arg[Position](components, 0)
	vel := depot.Arg[Velocity](components, 1)
	pos.X += vel.X * float64(delta)
	pos.Y += vel.Y * float64(delta)
}

// boundsSystem wraps entities leaving the arena. Those with health pay for it.
type boundsSystem struct {
	depot.BaseSystem
}

func newBoundsSystem(c components) *boundsSystem {
	s := &boundsSystem{}
	s.AddComponentType(c.position.ID)
	s.AddComponentType(c.health.ID, depot.FlagOptional)
	return s
}

func (s *boundsSystem) UpdateComponents(delta float32, components []any) {
	pos := depot.Arg[Position](components, 0)
	wrapped := false
	if pos.X < 0 || pos.X >= arenaSize {
		pos.X = wrap(pos.X)
		wrapped = true
	}
	if pos.Y < 0 || pos.Y >= arenaSize {
		pos.Y = wrap(pos.Y)
		wrapped = true
	}
	if hp := depot.Arg[Health](components, 1); wrapped && hp != nil {
		hp.Current -= boundsDamage
	}
}

func wrap(v float64) float64 {
	for v < 0 {
		v += arenaSize
	}
	for v >= arenaSize {
		v -= arenaSize
	}
	return v
}

type regenSystem struct {
	depot.BaseSystem
}

func newRegenSystem(c components) *regenSystem {
	s := &regenSystem{}
	s.AddComponentType(c.health.ID)
	return s
}

func (s *regenSystem) UpdateComponents(delta float32, components []any) {
	hp := depot.Arg[Health](components, 0)
	if hp.Current > 0 && hp.Current < hp.Max {
		hp.Current = min(hp.Max, hp.Current+regenPerTick)
	}
}

// casualtyListener counts entities with health leaving the world.
type casualtyListener struct {
	depot.BaseListener
	removed int
}

func newCasualtyListener(c components) *casualtyListener {
	l := &casualtyListener{}
	l.AddComponentType(c.health.ID)
	return l
}

func (l *casualtyListener) OnRemoveEntity(depot.EntityHandle) {
	l.removed++
}
