// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audroute/native"
)

// Kind is how an automation entry reaches its value.
type Kind int

const (
	SetImmediately Kind = iota
	SetAtTime
	LinearRamp
	ExponentialRamp
)

var kindNames = map[Kind]string{
	SetImmediately:  "set",
	SetAtTime:       "set-at",
	LinearRamp:      "linear",
	ExponentialRamp: "exponential",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names printed by Kind.String. An empty string means
// SetImmediately.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return SetImmediately, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Automation is one parameter change applied each time a stage activates.
type Automation struct {
	Param string
	Value float64
	// Source names an owner property that overrides Value when set.
	Source string
	Kind   Kind
	// Offset is seconds after the wiring anchor for timed kinds.
	Offset float64
}

func Set(param string, v float64) Automation {
	return Automation{Param: param, Value: v, Kind: SetImmediately}
}

// Bind sets param from the owner property source, or fallback when the
// property has no value.
func Bind(param, source string, fallback float64) Automation {
	return Automation{Param: param, Value: fallback, Source: source, Kind: SetImmediately}
}

func At(param string, v, offset float64) Automation {
	return Automation{Param: param, Value: v, Kind: SetAtTime, Offset: offset}
}

func RampTo(param string, v, offset float64, kind Kind) Automation {
	return Automation{Param: param, Value: v, Kind: kind, Offset: offset}
}

// Ramp is an envelope from one value to another over seconds: the start
// value is pinned at the anchor and a curve of the given kind ends at
// anchor+seconds.
func Ramp(param string, from, to, seconds float64, kind Kind) []Automation {
	return []Automation{
		At(param, from, 0),
		RampTo(param, to, seconds, kind),
	}
}

func (a Automation) value(props *Properties) float64 {
	if a.Source != "" && props != nil {
		if v, ok := props.Get(a.Source); ok {
			return v
		}
	}
	return a.Value
}

func (a Automation) apply(p native.Param, anchor float64, props *Properties) float64 {
	v := a.value(props)
	at := anchor + a.Offset

	switch a.Kind {
	case SetAtTime:
		p.SetValueAtTime(v, at)
	case LinearRamp:
		p.LinearRampToValueAtTime(v, at)
	case ExponentialRamp:
		p.ExponentialRampToValueAtTime(v, at)
	default:
		p.SetValue(v)
	}

	return v
}
