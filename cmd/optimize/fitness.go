package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/game"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu              sync.Mutex
	bestFitness     float64
	lastDeliveries  float64 // mean deliveries from the most recent Evaluate call
	lastFailedSeeds int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastDeliveries returns the mean deliveries of the most recent evaluation.
func (fe *FitnessEvaluator) LastDeliveries() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDeliveries
}

// LastFailedSeeds returns how many seeds of the most recent evaluation
// stopped on a simulation error.
func (fe *FitnessEvaluator) LastFailedSeeds() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFailedSeeds
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	deliveries int
	err        error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negative mean number of deliveries over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Warn("rejected parameters", "error", err)
		return 0
	}

	// Run all seeds in parallel; they share the read-only config
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total, failed int
	for _, r := range results {
		total += r.deliveries
		if r.err != nil {
			failed++
		}
	}
	mean := float64(total) / float64(len(fe.seeds))
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastDeliveries = mean
	fe.lastFailedSeeds = failed
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run for maxTicks.
// A simulation error ends the run early and keeps the deliveries so far.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) seedResult {
	g, err := game.NewGame(game.Options{
		Seed:   seed,
		Config: cfg,
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		if err := g.Step(cfg.Simulation.DT); err != nil {
			slog.Warn("simulation error", "seed", seed, "tick", g.Tick(), "error", err)
			return seedResult{deliveries: g.Deliveries(), err: err}
		}
	}
	return seedResult{deliveries: g.Deliveries()}
}

// copyConfig creates a copy of the base config.
// Config holds only value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
