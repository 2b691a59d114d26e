// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func ParseYAML(data []byte) (*Rig, error) {
	var r Rig
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding yaml rig: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Encode renders the rig as YAML, e.g. to save an edited pattern.
func (r *Rig) Encode() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml rig: %w", err)
	}
	return data, nil
}
