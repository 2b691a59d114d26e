// SPDX-License-Identifier: EPL-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audroute/config"
	"github.com/ik5/audroute/graph"
	"github.com/ik5/audroute/native"
)

const yamlRig = `
sequence:
  bpm: 120
  note: 0.125
  pattern: "x..x"
  bars: 2
stages:
  - name: lp
    kind: filter
    options: {type: lowpass}
    automation:
      - {param: frequency, value: 200, kind: set-at}
      - {param: frequency, value: 4000, kind: exponential, offset: 0.5}
  - name: level
    kind: gain
    automation:
      - {param: gain, source: level, value: 0.8}
`

const hclRig = `
sequence {
  bpm     = 120
  note    = 0.125
  pattern = "x..x"
  bars    = 2
}

stage "lp" {
  kind    = "filter"
  options = { type = "lowpass" }

  automation {
    param = "frequency"
    value = 200
    kind  = "set-at"
  }

  automation {
    param  = "frequency"
    value  = 4000
    kind   = "exponential"
    offset = 0.5
  }
}

stage "level" {
  kind = "gain"

  automation {
    param  = "gain"
    source = "level"
    value  = 0.8
  }
}
`

func wantStages() []*graph.Stage {
	return []*graph.Stage{
		{
			Name:    "lp",
			Policy:  graph.Persistent,
			Command: native.Command{Kind: native.KindFilter, Options: map[string]string{"type": "lowpass"}},
			Automation: []graph.Automation{
				{Param: "frequency", Value: 200, Kind: graph.SetAtTime},
				{Param: "frequency", Value: 4000, Kind: graph.ExponentialRamp, Offset: 0.5},
			},
		},
		{
			Name:       "level",
			Policy:     graph.Persistent,
			Command:    native.Command{Kind: native.KindGain},
			Automation: []graph.Automation{{Param: "gain", Source: "level", Value: 0.8}},
		},
	}
}

func TestParse_YAMLAndHCLAgree(t *testing.T) {
	t.Parallel()

	fromYAML, err := config.ParseYAML([]byte(yamlRig))
	require.NoError(t, err)
	fromHCL, err := config.ParseHCL([]byte(hclRig), "rig.hcl")
	require.NoError(t, err)

	for name, rig := range map[string]*config.Rig{"yaml": fromYAML, "hcl": fromHCL} {
		require.NotNil(t, rig.Sequence, name)
		assert.InDelta(t, 120.0, rig.Sequence.BPM, 1e-9, name)
		assert.InDelta(t, 0.125, rig.Sequence.NoteFraction(), 1e-9, name)
		assert.Equal(t, "x..x", rig.Sequence.Pattern, name)
		assert.Equal(t, 2, rig.Sequence.Bars, name)

		stages, err := rig.Build()
		require.NoError(t, err, name)
		opts := []cmp.Option{
			cmpopts.IgnoreUnexported(graph.Stage{}),
			cmpopts.EquateEmpty(),
		}
		if diff := cmp.Diff(wantStages(), stages, opts...); diff != "" {
			t.Errorf("%s stages mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"unknown kind", "stages: [{name: x, kind: reverb}]", config.ErrUnknownKind},
		{"unknown policy", "stages: [{name: x, kind: gain, policy: sometimes}]", graph.ErrUnknownPolicy},
		{"unknown automation", "stages: [{name: x, kind: gain, automation: [{param: gain, kind: wobble}]}]", graph.ErrUnknownKind},
		{"missing name", "stages: [{kind: gain}]", config.ErrInvalidStage},
		{"duplicate", "stages: [{name: x, kind: gain}, {name: x, kind: panner}]", config.ErrInvalidStage},
		{"external without path", "stages: [{name: out, policy: external}]", config.ErrInvalidStage},
		{"bad tempo", "sequence: {bpm: 0, pattern: x}", config.ErrInvalidSequence},
		{"bad pattern", "sequence: {bpm: 90, pattern: x-x}", config.ErrInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.ParseYAML([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseHCL_Syntax(t *testing.T) {
	t.Parallel()

	_, err := config.ParseHCL([]byte(`stage "x" {`), "broken.hcl")
	require.Error(t, err)

	_, err = config.ParseHCL([]byte(`stage "x" { colour = "red" }`), "extra.hcl")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, body := range map[string]string{"rig.yml": yamlRig, "rig.HCL": hclRig, "rig.toml": ""} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	for _, name := range []string{"rig.yml", "rig.HCL"} {
		rig, err := config.Load(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Len(t, rig.Stages, 2, name)
	}

	_, err := config.Load(filepath.Join(dir, "rig.toml"))
	require.ErrorIs(t, err, config.ErrUnsupportedFormat)

	_, err = config.Load(filepath.Join(dir, "absent.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	rig, err := config.ParseYAML([]byte(yamlRig))
	require.NoError(t, err)
	rig.Sequence.Pattern = "xxxx"

	data, err := rig.Encode()
	require.NoError(t, err)

	again, err := config.ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "xxxx", again.Sequence.Pattern)
	assert.Len(t, again.Stages, 2)
}

func TestBuild_External(t *testing.T) {
	t.Parallel()

	rig, err := config.ParseYAML([]byte("stages: [{name: out, policy: external, path: destination}]"))
	require.NoError(t, err)

	stages, err := rig.Build()
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, graph.External, stages[0].Policy)
	assert.Equal(t, native.Destination, stages[0].Path)
}
