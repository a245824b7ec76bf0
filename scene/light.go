// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/render"
)

// LightKind enumerates the light types a scene supports. The kind is
// fixed at construction; there is no runtime shape-sniffing.
type LightKind int32

const (
	// Sun is a directional light: parallel rays aimed at a target.
	Sun LightKind = iota

	// Ambient illuminates everything uniformly with no position.
	Ambient

	// Point radiates from a position with distance falloff.
	Point

	// Spot is a cone of light aimed at a target.
	Spot

	// Hemisphere blends a sky color from above with a ground color
	// from below.
	Hemisphere
)

func (lk LightKind) String() string {
	switch lk {
	case Sun:
		return "sun"
	case Ambient:
		return "ambient"
	case Point:
		return "point"
	case Spot:
		return "spot"
	case Hemisphere:
		return "hemisphere"
	}
	return fmt.Sprintf("LightKind(%d)", int32(lk))
}

// ParseLightKind parses the string form produced by [LightKind.String].
func ParseLightKind(s string) (LightKind, error) {
	switch s {
	case "sun":
		return Sun, nil
	case "ambient":
		return Ambient, nil
	case "point":
		return Point, nil
	case "spot":
		return Spot, nil
	case "hemisphere":
		return Hemisphere, nil
	}
	return 0, errs.Validation("scene.ParseLightKind", "unknown light kind %q", s)
}

// LightConfig configures a single light. Zero-valued fields take
// per-kind defaults; fields that do not apply to the kind are ignored.
type LightConfig struct {

	// Name identifies the light within its scene; generated when empty.
	Name string

	// Color is the light color, defaulting to white.
	Color color.RGBA

	// Intensity is the brightness multiplier, defaulting to 1.
	// Negative values are invalid.
	Intensity float32

	// Pos is the light position (sun, point, spot, hemisphere).
	Pos math32.Vector3

	// Target is the aim point for sun and spot lights.
	Target math32.Vector3

	// Distance is the falloff cutoff for point and spot lights;
	// 0 means unlimited.
	Distance float32

	// Decay is the falloff exponent for point and spot lights,
	// defaulting to 2 (physically plausible).
	Decay float32

	// Angle is the spot cone half-angle in degrees, in (0, 90].
	// Defaults to 45.
	Angle float32

	// Penumbra is the spot edge softness fraction, in [0, 1].
	Penumbra float32

	// GroundColor is the from-below color of a hemisphere light,
	// defaulting to a dark gray.
	GroundColor color.RGBA

	// CastShadow requests shadow mapping from backends that support it.
	CastShadow bool
}

func (lc *LightConfig) defaults(kind LightKind) {
	if lc.Name == "" {
		lc.Name = genName(kind.String())
	}
	if lc.Color == (color.RGBA{}) {
		lc.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if lc.Intensity == 0 {
		lc.Intensity = 1
	}
	switch kind {
	case Point, Spot:
		if lc.Decay == 0 {
			lc.Decay = 2
		}
	}
	if kind == Spot && lc.Angle == 0 {
		lc.Angle = 45
	}
	if kind == Hemisphere && lc.GroundColor == (color.RGBA{}) {
		lc.GroundColor = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	}
}

func (lc *LightConfig) validate(kind LightKind) error {
	if lc.Intensity < 0 {
		return errs.Validation("scene.LightConfig", "intensity must be non-negative, got %g", lc.Intensity)
	}
	if lc.Distance < 0 {
		return errs.Validation("scene.LightConfig", "distance must be non-negative, got %g", lc.Distance)
	}
	if kind == Spot {
		if lc.Angle <= 0 || lc.Angle > 90 {
			return errs.Validation("scene.LightConfig", "spot angle must be in (0, 90], got %g", lc.Angle)
		}
		if lc.Penumbra < 0 || lc.Penumbra > 1 {
			return errs.Validation("scene.LightConfig", "penumbra must be in [0, 1], got %g", lc.Penumbra)
		}
	}
	return nil
}

// Light is the interface satisfied by all light wrappers.
type Light interface {

	// AsLightBase returns the embedded [LightBase].
	AsLightBase() *LightBase

	// Kind returns the light's fixed kind.
	Kind() LightKind
}

// LightBase is the common implementation embedded by every light wrapper.
type LightBase struct {
	handle     *render.LightHandle
	bus        *events.Bus
	castShadow bool
	disposed   bool
}

func (lb *LightBase) AsLightBase() *LightBase { return lb }

func (lb *LightBase) attach(bus *events.Bus) { lb.bus = bus }

func (lb *LightBase) emit(name string, data any) {
	if lb.bus != nil {
		lb.bus.Publish(name, data)
	}
}

// Handle returns the native light handle, nil after disposal.
func (lb *LightBase) Handle() *render.LightHandle { return lb.handle }

// Name returns the light's name.
func (lb *LightBase) Name() string {
	if lb.handle == nil {
		return ""
	}
	return lb.handle.Name
}

// Color returns the light color.
func (lb *LightBase) Color() color.RGBA {
	if lb.handle == nil {
		return color.RGBA{}
	}
	return lb.handle.Color
}

// SetColor sets the light color.
func (lb *LightBase) SetColor(clr color.RGBA) error {
	if lb.disposed {
		return errs.Disposed("light.SetColor")
	}
	lb.handle.Color = clr
	return nil
}

// Intensity returns the brightness multiplier.
func (lb *LightBase) Intensity() float32 {
	if lb.handle == nil {
		return 0
	}
	return lb.handle.Intensity
}

// SetIntensity sets the brightness multiplier, which must be non-negative.
func (lb *LightBase) SetIntensity(in float32) error {
	if lb.disposed {
		return errs.Disposed("light.SetIntensity")
	}
	if in < 0 {
		return errs.Validation("light.SetIntensity", "intensity must be non-negative, got %g", in)
	}
	lb.handle.Intensity = in
	return nil
}

// Pos returns the light position.
func (lb *LightBase) Pos() math32.Vector3 {
	if lb.handle == nil {
		return math32.Vector3{}
	}
	return lb.handle.Pos
}

// SetPos moves the light.
func (lb *LightBase) SetPos(x, y, z float32) error {
	if lb.disposed {
		return errs.Disposed("light.SetPos")
	}
	lb.handle.Pos.Set(x, y, z)
	return nil
}

// CastShadow reports whether the light requests shadow mapping.
func (lb *LightBase) CastShadow() bool { return lb.castShadow }

// IsDisposed reports whether Dispose has completed.
func (lb *LightBase) IsDisposed() bool { return lb.disposed }

// Dispose drops the native handle. Idempotent.
func (lb *LightBase) Dispose() {
	if lb.disposed {
		return
	}
	lb.emit(LightDisposingEvent, lb.Name())
	name := lb.Name()
	lb.disposed = true
	lb.handle = nil
	lb.emit(LightDisposedEvent, name)
	lb.bus = nil
}

// Target returns the light's aim point handle, nil for kinds that have
// none.
func (lb *LightBase) Target() *render.HandleBase {
	if lb.handle == nil {
		return nil
	}
	return lb.handle.Target
}

// SetTarget aims the light at the given point. It is an error for kinds
// without a target.
func (lb *LightBase) SetTarget(x, y, z float32) error {
	if lb.disposed {
		return errs.Disposed("light.SetTarget")
	}
	if lb.handle.Target == nil {
		return errs.Validation("light.SetTarget", "light kind has no target")
	}
	lb.handle.Target.Pos.Set(x, y, z)
	return nil
}

// SunLight is a directional light aimed at a target.
type SunLight struct{ LightBase }

func (sl *SunLight) Kind() LightKind { return Sun }

// AmbientLight illuminates uniformly.
type AmbientLight struct{ LightBase }

func (al *AmbientLight) Kind() LightKind { return Ambient }

// PointLight radiates from a position with falloff.
type PointLight struct {
	LightBase

	// Distance is the falloff cutoff, 0 for unlimited.
	Distance float32

	// Decay is the falloff exponent.
	Decay float32
}

func (pl *PointLight) Kind() LightKind { return Point }

// SpotLight is an aimed cone of light.
type SpotLight struct {
	LightBase

	// Angle is the cone half-angle in degrees.
	Angle float32

	// Penumbra is the edge softness fraction.
	Penumbra float32

	// Distance is the falloff cutoff, 0 for unlimited.
	Distance float32

	// Decay is the falloff exponent.
	Decay float32
}

func (sl *SpotLight) Kind() LightKind { return Spot }

// HemisphereLight blends a sky color with a ground color.
type HemisphereLight struct {
	LightBase

	// GroundColor is the color arriving from below.
	GroundColor color.RGBA
}

func (hl *HemisphereLight) Kind() LightKind { return Hemisphere }

// NewLight builds a light of the given kind from the config, applying
// per-kind defaults and validating. This enum-keyed factory is the only
// way lights are created; the kind is never inferred from the config's
// shape.
func NewLight(kind LightKind, cfg *LightConfig) (Light, error) {
	if cfg == nil {
		cfg = &LightConfig{}
	}
	lc := *cfg
	lc.defaults(kind)
	if err := lc.validate(kind); err != nil {
		return nil, err
	}

	lh := render.NewLightHandle(lc.Name)
	lh.Color = lc.Color
	lh.Intensity = lc.Intensity
	lh.Pos = lc.Pos

	base := LightBase{handle: lh, castShadow: lc.CastShadow}
	switch kind {
	case Sun:
		lh.Target = &render.HandleBase{Name: lc.Name + "-target", Visible: true}
		lh.Target.Defaults()
		lh.Target.Pos = lc.Target
		return &SunLight{LightBase: base}, nil
	case Ambient:
		return &AmbientLight{LightBase: base}, nil
	case Point:
		return &PointLight{LightBase: base, Distance: lc.Distance, Decay: lc.Decay}, nil
	case Spot:
		lh.Target = &render.HandleBase{Name: lc.Name + "-target", Visible: true}
		lh.Target.Defaults()
		lh.Target.Pos = lc.Target
		return &SpotLight{LightBase: base, Angle: lc.Angle, Penumbra: lc.Penumbra, Distance: lc.Distance, Decay: lc.Decay}, nil
	case Hemisphere:
		return &HemisphereLight{LightBase: base, GroundColor: lc.GroundColor}, nil
	}
	return nil, errs.Validation("scene.NewLight", "unknown light kind %d", int32(kind))
}

// LightsConfig configures the lights a scene is constructed with.
// By default every scene gets a three-point setup: a sun key light, a
// point fill light, and an ambient base. Each slot can be overridden or
// the whole setup disabled.
type LightsConfig struct {

	// Disabled skips default lighting entirely; the scene starts with
	// no lights.
	Disabled bool

	// Key, Fill, and Ambient override the corresponding default light
	// when non-nil. Overrides are merged over the defaults field by
	// field, zero values keeping the default.
	Key, Fill, Ambient *LightConfig
}

// Default three-point lighting parameters.
var (
	defaultKey = LightConfig{
		Name:      "key",
		Intensity: 1,
		Pos:       math32.Vec3(5, 10, 7),
	}
	defaultFill = LightConfig{
		Name:      "fill",
		Intensity: 0.5,
		Pos:       math32.Vec3(-5, 5, -5),
	}
	defaultAmbient = LightConfig{
		Name:      "ambient",
		Intensity: 0.3,
	}
)

// mergeLight overlays the non-zero fields of over onto base.
func mergeLight(base LightConfig, over *LightConfig) LightConfig {
	if over == nil {
		return base
	}
	out := base
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.Color != (color.RGBA{}) {
		out.Color = over.Color
	}
	if over.Intensity != 0 {
		out.Intensity = over.Intensity
	}
	if over.Pos != (math32.Vector3{}) {
		out.Pos = over.Pos
	}
	if over.Target != (math32.Vector3{}) {
		out.Target = over.Target
	}
	if over.Distance != 0 {
		out.Distance = over.Distance
	}
	if over.Decay != 0 {
		out.Decay = over.Decay
	}
	if over.Angle != 0 {
		out.Angle = over.Angle
	}
	if over.Penumbra != 0 {
		out.Penumbra = over.Penumbra
	}
	if over.GroundColor != (color.RGBA{}) {
		out.GroundColor = over.GroundColor
	}
	if over.CastShadow {
		out.CastShadow = true
	}
	return out
}
