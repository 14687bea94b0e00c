// Package plugin is the entry surface a host uses to load contact models.
package plugin

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/liquidbridge/internal/contact"
)

// Interface version implemented by every model in this package.
const (
	VersionMajor = 2
	VersionMinor = 2
	VersionPatch = 0
)

// DefaultModel is instantiated when no name is given.
const DefaultModel = "liquid_bridge"

var ErrUnknownModel = errors.New("plugin: unknown model")

var registry = map[string]func() contact.Model{
	DefaultModel: func() contact.Model { return contact.NewLiquidBridge() },
}

// InterfaceVersion packs the version as major<<16 | minor<<8 | patch.
func InterfaceVersion() int {
	return VersionMajor<<16 | VersionMinor<<8 | VersionPatch
}

// UnpackVersion splits a packed interface version.
func UnpackVersion(v int) (major, minor, patch int) {
	return v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff
}

// Instantiate returns a new instance of the named model. An empty name
// selects DefaultModel.
func Instantiate(name string) (contact.Model, error) {
	if name == "" {
		name = DefaultModel
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return fn(), nil
}

// Release stops a model obtained from Instantiate. It is safe to call on a
// nil model and more than once.
func Release(m contact.Model) {
	if m == nil {
		return
	}
	m.Stopping()
}

// Names lists the registered models in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
