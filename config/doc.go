// SPDX-License-Identifier: EPL-2.0

// Package config reads rig files: an effect chain and an optional sequence,
// written in YAML or HCL.
//
// YAML:
//
//	sequence:
//	  bpm: 120
//	  note: 0.25
//	  pattern: "x..x..x."
//	stages:
//	  - name: lp
//	    kind: filter
//	    options: {type: lowpass}
//	    automation:
//	      - {param: frequency, value: 800}
//
// The same rig in HCL:
//
//	sequence {
//	  bpm     = 120
//	  note    = 0.25
//	  pattern = "x..x..x."
//	}
//
//	stage "lp" {
//	  kind    = "filter"
//	  options = { type = "lowpass" }
//	  automation {
//	    param = "frequency"
//	    value = 800
//	  }
//	}
//
// Stage policies and automation kinds use the names printed by
// graph.Policy and graph.Kind.
package config
