// Package optim searches scenario parameters for the best run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/liquidbridge/internal/config"
	"github.com/san-kum/liquidbridge/internal/experiment"
	"github.com/san-kum/liquidbridge/internal/host"
)

var (
	ErrNoCandidates = errors.New("optim: no candidate could be evaluated")
	ErrShape        = errors.New("optim: parameter names and ranges differ in length")
)

// Build returns a ready experiment for one point of the grid.
type Build func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search look for the largest metric value instead of the
// smallest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search runs every combination of the ranges and returns the best
// parameters with their metric value. Candidates that fail to build or run
// are skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, build Build, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, ErrShape
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, ErrNoCandidates
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Build,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, ok := evaluate(ctx, build, current, metricName)
		if !ok {
			return nil
		}
		if (g.maximize && val > *best) || (!g.maximize && val < *best) {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, build Build, params map[string]float64, metricName string) (float64, bool) {
	exp, err := build(params)
	if err != nil {
		return 0, false
	}
	defer exp.Close()

	result, err := exp.Run(ctx)
	if err != nil {
		return 0, false
	}
	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// FromPreset builds candidates from a preset with the grid point applied
// through config.SetParams. metrics is called once per candidate.
func FromPreset(preset string, metrics func() []host.Metric) Build {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		if err := cfg.SetParams(params); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(metrics()...); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
