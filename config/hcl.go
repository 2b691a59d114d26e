// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ParseHCL decodes an HCL rig. filename only labels diagnostics.
func ParseHCL(data []byte, filename string) (*Rig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl rig %s: %w", filename, diags)
	}

	var r Rig
	if diags := gohcl.DecodeBody(file.Body, nil, &r); diags.HasErrors() {
		return nil, fmt.Errorf("decoding hcl rig %s: %w", filename, diags)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
