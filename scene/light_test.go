// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"testing"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightKindRoundTrip(t *testing.T) {
	for _, k := range []LightKind{Sun, Ambient, Point, Spot, Hemisphere} {
		got, err := ParseLightKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseLightKind("laser")
	assert.True(t, errs.IsValidation(err))
}

func TestNewLightDefaults(t *testing.T) {
	lt, err := NewLight(Sun, nil)
	require.NoError(t, err)
	assert.Equal(t, Sun, lt.Kind())
	lb := lt.AsLightBase()
	assert.NotEmpty(t, lb.Name())
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, lb.Color())
	assert.Equal(t, float32(1), lb.Intensity())
	require.NotNil(t, lb.Target(), "sun lights are aimed")

	spot, err := NewLight(Spot, &LightConfig{Name: "beam"})
	require.NoError(t, err)
	s := spot.(*SpotLight)
	assert.Equal(t, float32(45), s.Angle)
	assert.Equal(t, float32(2), s.Decay)

	amb, err := NewLight(Ambient, nil)
	require.NoError(t, err)
	assert.Nil(t, amb.AsLightBase().Target())
	assert.True(t, errs.IsValidation(amb.AsLightBase().SetTarget(1, 2, 3)))
}

func TestNewLightValidation(t *testing.T) {
	_, err := NewLight(Point, &LightConfig{Intensity: -1})
	assert.True(t, errs.IsValidation(err))
	_, err = NewLight(Spot, &LightConfig{Angle: 91})
	assert.True(t, errs.IsValidation(err))
	_, err = NewLight(Spot, &LightConfig{Penumbra: 2})
	assert.True(t, errs.IsValidation(err))
	_, err = NewLight(Point, &LightConfig{Distance: -1})
	assert.True(t, errs.IsValidation(err))
	_, err = NewLight(LightKind(99), nil)
	assert.Error(t, err)
}

func TestLightSetters(t *testing.T) {
	lt, err := NewLight(Spot, &LightConfig{Name: "beam"})
	require.NoError(t, err)
	lb := lt.AsLightBase()

	require.NoError(t, lb.SetIntensity(0.25))
	assert.Equal(t, float32(0.25), lb.Intensity())
	assert.True(t, errs.IsValidation(lb.SetIntensity(-1)))

	require.NoError(t, lb.SetTarget(1, 2, 3))
	assert.Equal(t, float32(3), lb.Target().Pos.Z)

	lb.Dispose()
	assert.True(t, lb.IsDisposed())
	assert.True(t, errs.IsDisposed(lb.SetIntensity(1)))
	assert.True(t, errs.IsDisposed(lb.SetPos(0, 0, 0)))
	lb.Dispose()
}
