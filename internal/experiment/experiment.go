// Package experiment turns a scenario configuration into a running world.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/liquidbridge/internal/config"
	"github.com/san-kum/liquidbridge/internal/contact"
	"github.com/san-kum/liquidbridge/internal/host"
	"github.com/san-kum/liquidbridge/internal/plugin"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Experiment struct {
	cfg    *config.Config
	model  contact.Model
	world  *host.World
	prefs  *prefs.Prefs
	tmpDir string
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup instantiates the model, configures it through a preference file and
// populates the world. Inline cohesion settings are written to a temporary
// preference file unless the scenario names one.
func (e *Experiment) Setup(metrics ...host.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	model, err := plugin.Instantiate(e.cfg.Model)
	if err != nil {
		return err
	}

	prefPath, err := e.preparePrefs(model)
	if err != nil {
		return err
	}

	world, err := host.New(model, host.Options{
		PrefsPath:       prefPath,
		Dt:              e.cfg.Dt,
		Gravity:         mgl64.Vec3(e.cfg.Gravity),
		Restitution:     e.cfg.Contact.Restitution,
		StaticFriction:  e.cfg.Contact.StaticFriction,
		RollingFriction: e.cfg.Contact.RollingFriction,
		Workers:         e.cfg.Workers,
	})
	if err != nil {
		e.cleanup()
		return err
	}
	e.model = model
	e.world = world

	if err := e.populate(); err != nil {
		e.Close()
		return err
	}
	for _, m := range metrics {
		world.AddMetric(m)
	}
	return nil
}

func (e *Experiment) preparePrefs(model contact.Model) (string, error) {
	if e.cfg.PrefsPath != "" {
		p, err := prefs.Load(e.cfg.PrefsPath)
		if err != nil {
			return "", err
		}
		e.prefs = p
		return e.cfg.PrefsPath, nil
	}

	dir, err := os.MkdirTemp("", "liquidbridge-")
	if err != nil {
		return "", err
	}
	e.tmpDir = dir
	e.prefs = e.cfg.Prefs()

	path := filepath.Join(dir, model.PreferenceFileName())
	if err := prefs.Save(path, e.prefs); err != nil {
		e.cleanup()
		return "", err
	}
	return path, nil
}

func (e *Experiment) populate() error {
	_, hasLiquid := e.world.Store().Index(property.Particle, contact.LiquidContent)

	for i, pc := range e.cfg.Particles {
		p := host.Particle{
			Type:            pc.Type,
			Radius:          pc.Radius,
			ContactRadius:   pc.ContactRadius,
			Mass:            pc.ParticleMass(),
			ShearModulus:    pc.ShearModulus,
			Poisson:         pc.Poisson,
			Position:        mgl64.Vec3(pc.Position),
			Velocity:        mgl64.Vec3(pc.Velocity),
			AngularVelocity: mgl64.Vec3(pc.AngularVelocity),
			Fixed:           pc.Fixed,
		}
		if hasLiquid {
			p.Properties = map[string]float64{contact.LiquidContent: pc.LiquidContent}
		}
		if _, err := e.world.AddParticle(p); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}

	for i, wc := range e.cfg.Walls {
		_, err := e.world.AddWall(host.Wall{
			Type:         wc.Type,
			Point:        mgl64.Vec3(wc.Point),
			Normal:       mgl64.Vec3(wc.Normal),
			ShearModulus: wc.ShearModulus,
			Poisson:      wc.Poisson,
			Area:         wc.Area,
		})
		if err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
	}
	return nil
}

// Run simulates the configured duration.
func (e *Experiment) Run(ctx context.Context, observers ...host.Observer) (*host.Result, error) {
	if e.world == nil {
		return nil, ErrNotSetup
	}
	return e.world.Run(ctx, e.cfg.Duration, observers...)
}

// World returns the world for stepping by hand, or nil before Setup.
func (e *Experiment) World() *host.World { return e.world }

// Prefs returns the preferences the model was configured with.
func (e *Experiment) Prefs() *prefs.Prefs { return e.prefs }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Close stops the model and removes temporary files. It is safe to call
// more than once.
func (e *Experiment) Close() {
	if e.world != nil {
		e.world.Close()
	}
	plugin.Release(e.model)
	e.cleanup()
}

func (e *Experiment) cleanup() {
	if e.tmpDir != "" {
		os.RemoveAll(e.tmpDir)
		e.tmpDir = ""
	}
}
