// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("graph configuration error")
	ErrUnknownStage  = errors.New("unknown stage")
	ErrUnknownKind   = errors.New("unknown automation kind")
	ErrUnknownPolicy = errors.New("unknown materialization policy")
)

// ConfigurationError reports a stage that cannot resolve to a usable unit.
type ConfigurationError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("stage %q: %s", e.Stage, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

func configErr(stage, reason string, err error) error {
	return &ConfigurationError{Stage: stage, Reason: reason, Err: err}
}
