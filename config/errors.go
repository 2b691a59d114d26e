// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported rig file format")
	ErrUnknownKind       = errors.New("unknown node kind")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrInvalidSequence   = errors.New("invalid sequence")
)
