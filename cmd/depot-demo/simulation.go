package main

import (
	"context"
	"math/rand"

	"github.com/TheBitDrifter/depot"
	"go.uber.org/zap"
)

type simulation struct {
	world      depot.World
	systems    *depot.SystemList
	components components
	casualties *casualtyListener
	logger     *zap.Logger
}

func provideLogger(cfg depot.Config) (*zap.Logger, error) {
	return cfg.Logger()
}

func provideWorld(catalog *depot.Catalog, cfg depot.Config, logger *zap.Logger) (depot.World, error) {
	return depot.Factory.NewWorld(catalog, cfg.WithLogger(logger))
}

func provideSystems(c components) *depot.SystemList {
	return depot.Factory.NewSystemList(
		newMovementSystem(c),
		newBoundsSystem(c),
		newRegenSystem(c),
	)
}

func provideCasualtyListener(world depot.World, c components) (*casualtyListener, error) {
	l := newCasualtyListener(c)
	if err := world.AddListener(l); err != nil {
		return nil, err
	}
	return l, nil
}

func newSimulation(world depot.World, systems *depot.SystemList, c components, casualties *casualtyListener, logger *zap.Logger) *simulation {
	return &simulation{
		world:      world,
		systems:    systems,
		components: c,
		casualties: casualties,
		logger:     logger.With(zap.String("world", world.ID())),
	}
}

// spawn fills the world with n entities. Every third one is a prop without
// health.
func (s *simulation) spawn(n int, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		pos := Position{X: rng.Float64() * arenaSize, Y: rng.Float64() * arenaSize}
		vel := Velocity{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10}
		var err error
		if i%3 == 0 {
			_, err = s.world.NewEntity(pos, vel)
		} else {
			_, err = s.world.NewEntity(pos, vel, Health{Current: initialHealth, Max: initialHealth})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// reap removes entities whose health ran out. Removals queue while the cursor
// holds the world and are applied when it finishes.
func (s *simulation) reap() {
	cursor := depot.Factory.NewCursor(depot.Factory.NewQuery().And(s.components.health.ID), s.world)
	for cursor.Next() {
		if s.components.health.GetFromCursor(cursor).Current <= 0 {
			if err := s.world.EnqueueRemoveEntity(cursor.Entity()); err != nil {
				s.logger.Warn("failed to queue removal", zap.Stringer("entity", cursor.Entity()), zap.Error(err))
			}
		}
	}
}

func (s *simulation) run(ctx context.Context, ticks int, delta float32) error {
	for tick := 0; tick < ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.world.UpdateSystems(s.systems, delta)
		s.reap()

		stats := s.world.LastTick()
		s.logger.Debug("tick",
			zap.Int("tick", tick),
			zap.Int("systems", stats.SystemsRun),
			zap.Int("examined", stats.CandidatesExamined),
			zap.Int("updates", stats.UpdatesInvoked),
		)
	}
	s.logger.Info("simulation finished",
		zap.Int("ticks", ticks),
		zap.Int("alive", s.world.EntityCount()),
		zap.Int("casualties", s.casualties.removed),
	)
	return nil
}
