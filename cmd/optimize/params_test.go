package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/antmaze/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	require.Len(t, def, pv.Dim())

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		assert.InDelta(t, def[i], back[i], 1e-12, pv.Specs[i].Name)
		assert.GreaterOrEqual(t, def[i], pv.Specs[i].Min)
		assert.LessOrEqual(t, def[i], pv.Specs[i].Max)
	}
}

func TestApplyToConfigClampsAndRefreshes(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	pv := NewParamVector()
	require.NoError(t, pv.ApplyToConfig(cfg, []float64{10, -1, 2, 0.2}))

	assert.Equal(t, 1.5, cfg.Ant.BaseSpeed)
	assert.Equal(t, 0.0, cfg.Ant.SpeedJitter)
	assert.Equal(t, 2.0, cfg.Pheromone.BaseStrength)
	assert.Equal(t, 0.2, cfg.Pheromone.DecayAmount)
	assert.Equal(t, 1.5, cfg.Derived.MinSpeed)
	assert.Equal(t, []float64{1.5, 0, 2, 0.2}, pv.ExtractFromConfig(cfg))
}

func TestCopyConfigIsIndependent(t *testing.T) {
	base, err := config.Load("")
	require.NoError(t, err)
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{1}, base)

	cfg := fe.copyConfig()
	cfg.Ant.BaseSpeed = 9
	assert.NotEqual(t, 9.0, base.Ant.BaseSpeed)
}
