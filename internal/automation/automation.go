// Package automation runs scripted batches and parameter sweeps of
// scenarios.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/liquidbridge/internal/config"
	"github.com/san-kum/liquidbridge/internal/experiment"
	"github.com/san-kum/liquidbridge/internal/host"
	"github.com/san-kum/liquidbridge/internal/metrics"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/storage"
)

var ErrInvalidBatch = errors.New("automation: invalid batch")

// Batch is a YAML list of runs executed in order.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun names a preset or a scenario file and parameter overrides.
type BatchRun struct {
	Preset string             `yaml:"preset,omitempty"`
	Config string             `yaml:"config,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
	SaveAs string             `yaml:"save_as,omitempty"`
}

type BatchResult struct {
	Scenario string
	RunID    string
	Result   *host.Result
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	if len(b.Runs) == 0 {
		return nil, fmt.Errorf("%w: no runs", ErrInvalidBatch)
	}
	return &b, nil
}

func (r BatchRun) scenario() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Config != "":
		c, err := config.Load(r.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case r.Preset != "":
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %s", ErrInvalidBatch, r.Preset)
		}
	default:
		return nil, fmt.Errorf("%w: run needs a preset or a config", ErrInvalidBatch)
	}

	if err := cfg.SetParams(r.Params); err != nil {
		return nil, err
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}
	return cfg, nil
}

// RunBatch executes every run of b. Results are saved to st when it is not
// nil. The first failing run stops the batch.
func RunBatch(ctx context.Context, b *Batch, st *storage.Store) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(b.Runs))

	for i, run := range b.Runs {
		cfg, err := run.scenario()
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		res, p, err := execute(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		br := BatchResult{Scenario: cfg.Name, Result: res}
		if st != nil {
			id, err := st.Save(storage.RunMetadata{
				Scenario:  cfg.Name,
				Model:     cfg.Model,
				Dt:        cfg.Dt,
				Duration:  cfg.Duration,
				Particles: len(cfg.Particles),
				Walls:     len(cfg.Walls),
			}, res, p)
			if err != nil {
				return results, fmt.Errorf("run %d save: %w", i+1, err)
			}
			br.RunID = id
		}
		results = append(results, br)
	}
	return results, nil
}

// Sweep varies one parameter of a preset over a closed range.
type Sweep struct {
	Preset   string
	Param    string
	Min, Max float64
	Steps    int
	// Params are fixed overrides applied before the swept value.
	Params map[string]float64
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Final   host.Sample
}

// Values returns the swept parameter values.
func (s *Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep runs the preset once per swept value. progress, when not nil,
// is called after every run.
func RunSweep(ctx context.Context, s *Sweep, progress func(done, total int)) ([]SweepResult, error) {
	if config.GetPreset(s.Preset) == nil {
		return nil, fmt.Errorf("%w: unknown preset %s", ErrInvalidBatch, s.Preset)
	}

	values := s.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg := config.GetPreset(s.Preset)
		if err := cfg.SetParams(s.Params); err != nil {
			return results, err
		}
		if err := cfg.SetParam(s.Param, v); err != nil {
			return results, err
		}

		res, _, err := execute(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", s.Param, v, err)
		}
		results = append(results, SweepResult{Value: v, Metrics: res.Metrics, Final: res.Final()})

		if progress != nil {
			progress(i+1, len(values))
		}
	}
	return results, nil
}

func execute(ctx context.Context, cfg *config.Config) (*host.Result, *prefs.Prefs, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(metrics.Standard(smallestRadius(cfg))...); err != nil {
		return nil, nil, err
	}
	defer exp.Close()

	res, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res, exp.Prefs(), nil
}

func smallestRadius(cfg *config.Config) float64 {
	if len(cfg.Particles) == 0 {
		return 0
	}
	r := cfg.Particles[0].Radius
	for _, p := range cfg.Particles[1:] {
		r = min(r, p.Radius)
	}
	return r
}
