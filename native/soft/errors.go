// SPDX-License-Identifier: EPL-2.0

package soft

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown node kind")
	ErrInvalidOption  = errors.New("invalid node option")
	ErrMissingBuffer  = errors.New("buffer node needs a buffer")
	ErrNotSource      = errors.New("node cannot be started")
	ErrNoInput        = errors.New("node takes no input")
	ErrAlreadyStarted = errors.New("source already started")
	ErrForeignNode    = errors.New("node belongs to another context")
	ErrOddRender      = errors.New("render buffer must hold whole stereo frames")
)
