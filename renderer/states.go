// renderer/states.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"slices"
	"strings"
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("(unknown %d)", v)
	}
	return names[v]
}

func parseEnum[T ~int](kind string, names []string, s string) (T, error) {
	if i := slices.IndexFunc(names, func(n string) bool { return strings.EqualFold(n, s) }); i != -1 {
		return T(i), nil
	}
	return 0, fmt.Errorf("%q: unknown %s; valid values are %s", s, kind, strings.Join(names, ", "))
}

///////////////////////////////////////////////////////////////////////////
// SortMode

// SortMode specifies how the items drawn during a pass are ordered before
// they are submitted to the device.
type SortMode int

const (
	// SortTexture orders items by descending texture handle so that
	// items sharing a texture are contiguous.
	SortTexture SortMode = iota
	// SortFrontToBack orders items by descending depth.
	SortFrontToBack
	// SortBackToFront orders items by ascending depth, as is needed
	// for blending.
	SortBackToFront
	// SortNone and SortImmediate both submit items in the order they
	// were drawn.
	SortNone
	SortImmediate
)

var sortModeNames = []string{"Texture", "FrontToBack", "BackToFront", "None", "Immediate"}

func (m SortMode) String() string { return enumName(sortModeNames, int(m)) }

func ParseSortMode(s string) (SortMode, error) {
	return parseEnum[SortMode]("sort mode", sortModeNames, s)
}

func (m SortMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *SortMode) UnmarshalText(b []byte) error {
	v, err := ParseSortMode(string(b))
	if err == nil {
		*m = v
	}
	return err
}

///////////////////////////////////////////////////////////////////////////
// BlendMode

type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendPremultiplied
	BlendAlphaBlended
	BlendAdditive
)

var blendModeNames = []string{"None", "Premultiplied", "AlphaBlended", "Additive"}

func (b BlendMode) String() string { return enumName(blendModeNames, int(b)) }

func ParseBlendMode(s string) (BlendMode, error) {
	return parseEnum[BlendMode]("blend mode", blendModeNames, s)
}

func (b BlendMode) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BlendMode) UnmarshalText(t []byte) error {
	v, err := ParseBlendMode(string(t))
	if err == nil {
		*b = v
	}
	return err
}

// BlendFactor is a source or destination factor of the device blend
// function.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

var blendFactorNames = []string{"Zero", "One", "SrcAlpha", "OneMinusSrcAlpha"}

func (f BlendFactor) String() string { return enumName(blendFactorNames, int(f)) }

// Factors returns the source and destination blend factors for the mode;
// enabled is false for BlendNone, in which case blending should be turned
// off.
func (b BlendMode) Factors() (src, dst BlendFactor, enabled bool) {
	switch b {
	case BlendPremultiplied:
		return BlendOne, BlendOneMinusSrcAlpha, true
	case BlendAlphaBlended:
		return BlendSrcAlpha, BlendOneMinusSrcAlpha, true
	case BlendAdditive:
		return BlendSrcAlpha, BlendOne, true
	default:
		return BlendOne, BlendZero, false
	}
}

///////////////////////////////////////////////////////////////////////////
// RasterizerState

type RasterizerState int

const (
	RasterizerNone RasterizerState = iota
	RasterizerCullClockwise
	RasterizerCullCounterClockwise
)

var rasterizerStateNames = []string{"None", "CullClockwise", "CullCounterClockwise"}

func (r RasterizerState) String() string { return enumName(rasterizerStateNames, int(r)) }

func ParseRasterizerState(s string) (RasterizerState, error) {
	return parseEnum[RasterizerState]("rasterizer state", rasterizerStateNames, s)
}

func (r RasterizerState) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RasterizerState) UnmarshalText(b []byte) error {
	v, err := ParseRasterizerState(string(b))
	if err == nil {
		*r = v
	}
	return err
}

type CullFace int

const (
	CullDisabled CullFace = iota
	CullFront
	CullBack
)

// CullFace returns which faces the device should cull; front faces are
// the counterclockwise-wound ones.
func (r RasterizerState) CullFace() CullFace {
	switch r {
	case RasterizerCullClockwise:
		return CullFront
	case RasterizerCullCounterClockwise:
		return CullBack
	default:
		return CullDisabled
	}
}

///////////////////////////////////////////////////////////////////////////
// SamplerState

type SamplerState int

const (
	SamplerLinearClamp SamplerState = iota
	SamplerLinearWrap
	SamplerPointClamp
	SamplerPointWrap
)

var samplerStateNames = []string{"LinearClamp", "LinearWrap", "PointClamp", "PointWrap"}

func (s SamplerState) String() string { return enumName(samplerStateNames, int(s)) }

func ParseSamplerState(s string) (SamplerState, error) {
	return parseEnum[SamplerState]("sampler state", samplerStateNames, s)
}

func (s SamplerState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SamplerState) UnmarshalText(b []byte) error {
	v, err := ParseSamplerState(string(b))
	if err == nil {
		*s = v
	}
	return err
}

func (s SamplerState) Linear() bool {
	return s == SamplerLinearClamp || s == SamplerLinearWrap
}

func (s SamplerState) Wrap() bool {
	return s == SamplerLinearWrap || s == SamplerPointWrap
}

///////////////////////////////////////////////////////////////////////////
// DepthStencilState

type DepthStencilState int

const (
	DepthNone DepthStencilState = iota
	// DepthDefault tests with less-or-equal and writes depth.
	DepthDefault
	// DepthRead tests but does not write depth.
	DepthRead
)

var depthStencilStateNames = []string{"None", "Default", "DepthRead"}

func (d DepthStencilState) String() string { return enumName(depthStencilStateNames, int(d)) }

func ParseDepthStencilState(s string) (DepthStencilState, error) {
	return parseEnum[DepthStencilState]("depth stencil state", depthStencilStateNames, s)
}

func (d DepthStencilState) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DepthStencilState) UnmarshalText(b []byte) error {
	v, err := ParseDepthStencilState(string(b))
	if err == nil {
		*d = v
	}
	return err
}

func (d DepthStencilState) DepthTest() bool  { return d != DepthNone }
func (d DepthStencilState) DepthWrite() bool { return d == DepthDefault }

///////////////////////////////////////////////////////////////////////////
// PassState

// PassState holds the configuration of one Begin/End pass. Camera and
// Effect are optional; if Effect is non-nil, it is activated at Begin,
// after being given the Camera's matrices if Camera is non-nil.
type PassState struct {
	Sort         SortMode          `json:"sort" toml:"sort"`
	Blend        BlendMode         `json:"blend" toml:"blend"`
	Rasterizer   RasterizerState   `json:"rasterizer" toml:"rasterizer"`
	Sampler      SamplerState      `json:"sampler" toml:"sampler"`
	DepthStencil DepthStencilState `json:"depth_stencil" toml:"depth_stencil"`

	Camera Camera `json:"-" toml:"-"`
	Effect Effect `json:"-" toml:"-"`
}

// DefaultPassState returns a PassState that groups by texture and
// alpha-blends without culling or depth testing.
func DefaultPassState() PassState {
	return PassState{
		Sort:         SortTexture,
		Blend:        BlendAlphaBlended,
		Rasterizer:   RasterizerNone,
		Sampler:      SamplerLinearClamp,
		DepthStencil: DepthNone,
	}
}
