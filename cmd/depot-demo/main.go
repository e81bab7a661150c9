// depot-demo runs a small particle simulation on one or more independent
// worlds sharing a single component catalog.
//
// Profiling:
// go run ./cmd/depot-demo -profile cpu -entities 100000
// go tool pprof -http=":8000" ./cpu.pprof
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "depot-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to a YAML world config")
		worlds     = flag.Int("worlds", 1, "number of worlds to simulate concurrently")
		entities   = flag.Int("entities", 1000, "entities spawned per world")
		ticks      = flag.Int("ticks", 600, "ticks run per world")
		seed       = flag.Int64("seed", 1, "random seed of the first world")
		profMode   = flag.String("profile", "", "profile to record: cpu or mem")
	)
	flag.Parse()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profMode)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog := depot.Factory.NewCatalog()
	c, err := registerComponents(catalog)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.Int("worlds", *worlds),
		zap.Int("entities", *entities),
		zap.Int("ticks", *ticks),
		zap.Int("component_types", catalog.Len()),
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < *worlds; i++ {
		rng := rand.New(rand.NewSource(*seed + int64(i)))
		g.Go(func() error {
			sim, err := initializeSimulation(catalog, c, cfg)
			if err != nil {
				return err
			}
			if err := sim.spawn(*entities, rng); err != nil {
				return fmt.Errorf("failed to spawn entities: %w", err)
			}
			return sim.run(ctx, *ticks, 1.0/60)
		})
	}
	return g.Wait()
}

func loadConfig(path string) (depot.Config, error) {
	if path == "" {
		return depot.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return depot.Config{}, err
	}
	defer f.Close()
	return depot.LoadConfig(f)
}
