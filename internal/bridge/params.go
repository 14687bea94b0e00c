// Package bridge holds the liquid-bridge material parameters for pairs of
// surface types.
package bridge

// Parameters are the liquid properties of a bridge between two surface types.
// The zero value is what a lookup returns for an unregistered pair; it never
// produces cohesion.
type Parameters struct {
	SurfaceTension float64 `json:"surface_tension" yaml:"surface_tension"` // N/m
	WettingAngle   float64 `json:"wetting_angle" yaml:"wetting_angle"`     // rad
}
