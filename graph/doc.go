// SPDX-License-Identifier: EPL-2.0

// Package graph turns an ordered list of named stages into a live chain of
// native units.
//
// # Stages
//
// A Stage wraps one native node. Its Policy decides where the node comes
// from:
//   - Persistent: created on first wiring and reused afterwards
//   - PerActivation: created again on every wiring, for one-shot sources
//   - External: a fixed path resolved through the context, e.g. "destination"
//
// A stage may also be handed a node up front with NewStageWithUnit.
//
// # Wiring
//
// Wire walks the stages left to right. For each one it resolves or creates
// the unit, applies the stage's automation and connects the previous unit to
// it, so a chain of n stages issues n-1 connects per call. Wiring is safe to
// repeat and is how per-activation stages get fresh units on every play.
//
//	g, _ := graph.New(ctx, []*graph.Stage{
//	    graph.NewPerActivationStage("source", native.Command{Kind: native.KindBuffer, Buffer: buf}),
//	    graph.NewStage("gain", native.Command{Kind: native.KindGain},
//	        graph.Bind("gain", "gain", 1)),
//	    graph.NewExternalStage("out", native.Destination),
//	})
//	err := g.Wire(ctx.CurrentTime())
//
// # Automation
//
// Automation entries target a parameter of the stage's unit. The value is
// either a literal or the owner's property named by Source, falling back to
// the literal when the property is unset. Timed kinds are placed at the
// wiring anchor plus Offset:
//
//	graph.Set("gain", 0.8)                                  // set immediately
//	graph.At("frequency", 880, 0.5)                         // pin at anchor+0.5
//	graph.RampTo("gain", 0.01, 0.3, graph.ExponentialRamp)  // curve ending at anchor+0.3
//	graph.Ramp("frequency", 150, 50, 0.2, graph.LinearRamp) // envelope from 150 to 50
//
// # Errors
//
// A stage that ends up with no unit, no creation command and no fixed path,
// or that targets a parameter its unit lacks, fails with a
// *ConfigurationError matching ErrConfiguration. These are programming
// errors and are never retried. Connections made before the failing stage
// stay in place.
package graph
