// Package contact defines the contact model contract between a DEM host and
// a force law, and implements the liquid bridge model.
//
// The host calls a [Model] through its lifecycle:
//
//	Setup(prefFile) -> Starting() -> CalculateForce(...)* -> Stopping()
//
// CalculateForce is invoked once per contact per step, possibly from many
// goroutines at once for distinct contacts. Models that report
// IsThreadSafe hold no mutable state shared between contacts; everything a
// call needs arrives in its [Interaction] and everything it produces leaves
// in [Forces] or as deltas on the contact's custom properties.
//
// # Liquid bridge
//
// [LiquidBridge] combines a Hertz-Mindlin spring-dashpot contact with the
// capillary cohesion fit of Mikami et al. (1998). Each contact carries a
// BridgeStatus (0 or 1) and the BridgeForce magnitude of the last step. A
// bridge forms when the surfaces touch and survives separation until the
// gap exceeds the rupture distance, which grows with the liquid volume held
// in the bridge. Liquid volume comes from the per-particle "Liquid Content"
// property, a mass percentage.
package contact
