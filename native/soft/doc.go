// SPDX-License-Identifier: EPL-2.0

// Package soft is a pure Go implementation of the native audio layer.
//
// A [Context] renders a pull graph rooted at its destination, one block of
// frames at a time. Sources are one-shot: each can be started once, and
// finished sources are dropped from the graph as rendering passes them.
// Parameters hold automation timelines evaluated per frame, except filter
// coefficients which are updated per block.
//
// The clock advances only while rendering. Drive it from an output device
// through [Context.Read], or offline with [Context.Render].
package soft
