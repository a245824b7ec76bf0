// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sceneio

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, bus *events.Bus) *scene.Scene {
	t.Helper()
	sc, err := scene.NewScene("viewport", &scene.Config{
		Bus:         bus,
		NoAutoStart: true,
		Lights:      scene.LightsConfig{Disabled: true},
	})
	require.NoError(t, err)
	t.Cleanup(func() { sc.Dispose() })
	return sc
}

func populate(t *testing.T, sc *scene.Scene) {
	t.Helper()
	box, err := scene.NewBox(1, 2, 3)
	require.NoError(t, err)
	require.NoError(t, box.SetName("crate"))
	require.NoError(t, box.SetPos(1, 2, 3))
	require.NoError(t, box.SetRot(0, 45, 0))
	require.NoError(t, box.SetColor(color.RGBA{R: 200, G: 10, B: 10, A: 255}))
	require.NoError(t, box.SetOpacity(0.75))
	require.NoError(t, box.SetTags("prop"))
	require.NoError(t, box.SetUserData("hp", 12.0))
	require.NoError(t, box.SetLocked(true))
	_, err = sc.Add(box, "crate")
	require.NoError(t, err)

	sp, err := scene.NewSphere(2.5)
	require.NoError(t, err)
	require.NoError(t, sp.SetVisible(false))
	_, err = sc.Add(sp, "ball")
	require.NoError(t, err)

	_, err = sc.AddLight(scene.Spot, &scene.LightConfig{
		Name: "beam", Intensity: 0.8, Angle: 30, Penumbra: 0.2,
	})
	require.NoError(t, err)

	require.NoError(t, sc.Camera().SetFOV(75))
	require.NoError(t, sc.Camera().SetClippingPlanes(0.5, 500))
	require.NoError(t, sc.Camera().SetPos(0, 5, 20))
	require.NoError(t, sc.Camera().SetRot(-15, 0, 0))
}

func TestRoundTrip(t *testing.T) {
	sr := New(nil)
	src := newTestScene(t, nil)
	populate(t, src)

	doc, err := sr.Serialize(src)
	require.NoError(t, err)
	assert.Equal(t, Version, doc.Version)
	assert.Len(t, doc.Objects, 2)
	assert.Len(t, doc.Lights, 1)

	dst := newTestScene(t, nil)
	require.NoError(t, sr.Deserialize(dst, doc))

	assert.InDelta(t, 75, dst.Camera().FOV(), 1e-5)
	near, far := dst.Camera().ClippingPlanes()
	assert.InDelta(t, 0.5, near, 1e-5)
	assert.InDelta(t, 500, far, 1e-5)
	assert.InDelta(t, 20, dst.Camera().Pos().Z, 1e-5)
	assert.InDelta(t, -15, dst.Camera().Rot().X, 1e-5)
	assert.False(t, dst.Camera().AspectPinned(),
		"a derived aspect stays responsive to resizes after a load")

	tr, ok := dst.Find("crate")
	require.True(t, ok)
	box := tr.Node.(*scene.Box)
	assert.InDelta(t, 1, box.Size.X, 1e-5)
	assert.InDelta(t, 2, box.Size.Y, 1e-5)
	assert.InDelta(t, 3, box.Size.Z, 1e-5)
	assert.InDelta(t, 45, box.Rot().Y, 1e-5)
	assert.InDelta(t, 3, box.Pos().Z, 1e-5)
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 10, A: 255}, box.Color())
	assert.InDelta(t, 0.75, box.Opacity(), 1e-5)
	assert.True(t, box.HasTag("prop"))
	assert.Equal(t, 12.0, box.UserData()["hp"])
	assert.True(t, box.Locked())

	tr, ok = dst.Find("ball")
	require.True(t, ok)
	sp := tr.Node.(*scene.Sphere)
	assert.InDelta(t, 2.5, sp.Radius, 1e-5)
	assert.False(t, sp.Visible())

	beam, ok := dst.LightByName("beam")
	require.True(t, ok)
	spot := beam.(*scene.SpotLight)
	assert.InDelta(t, 30, spot.Angle, 1e-5)
	assert.InDelta(t, 0.2, spot.Penumbra, 1e-5)
	assert.InDelta(t, 0.8, spot.AsLightBase().Intensity(), 1e-5)
}

func TestDeserializeClearsTarget(t *testing.T) {
	sr := New(nil)
	src := newTestScene(t, nil)
	dst := newTestScene(t, nil)

	leftover, err := scene.NewBox(9, 9, 9)
	require.NoError(t, err)
	_, err = dst.Add(leftover, "leftover")
	require.NoError(t, err)
	_, err = dst.AddLight(scene.Ambient, nil)
	require.NoError(t, err)

	doc, err := sr.Serialize(src)
	require.NoError(t, err)
	require.NoError(t, sr.Deserialize(dst, doc))

	_, ok := dst.Find("leftover")
	assert.False(t, ok)
	assert.Empty(t, dst.Lights())
	assert.True(t, leftover.IsDisposed())
}

func TestDeserializeVersionChecks(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)

	err := sr.Deserialize(sc, &Document{})
	assert.True(t, errs.IsValidation(err), "missing version")

	err = sr.Deserialize(sc, &Document{Version: "2.0.0"})
	assert.True(t, errs.IsValidation(err), "major version mismatch")

	assert.NoError(t, sr.Deserialize(sc, &Document{
		Version: "1.4.2",
		Camera:  CameraRecord{FOV: 60, Near: 0.1, Far: 100},
	}), "minor and patch versions are compatible")
}

func TestDeserializeSkipsUnknownKinds(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)

	doc := &Document{
		Version: Version,
		Camera:  CameraRecord{Kind: "perspective", FOV: 60, Near: 0.1, Far: 100},
		Lights:  []LightRecord{{Kind: "laser", Name: "zap", Intensity: 1}},
		Objects: []ObjectRecord{
			{Kind: "teapot", ID: "t1"},
			{Kind: scene.KindSphere, ID: "ok", Visible: true, Opacity: 1,
				Color:  color.RGBA{A: 255},
				Params: map[string]float32{"radius": 1}},
		},
	}
	require.NoError(t, sr.Deserialize(sc, doc))
	assert.Equal(t, 1, sc.ObjectCount())
	assert.Empty(t, sc.Lights())
	_, ok := sc.Find("ok")
	assert.True(t, ok)
}

func TestDeserializeMissingParam(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)
	doc := &Document{
		Version: Version,
		Camera:  CameraRecord{FOV: 60, Near: 0.1, Far: 100},
		Objects: []ObjectRecord{{Kind: scene.KindBox, ID: "b", Params: map[string]float32{"width": 1}}},
	}
	err := sr.Deserialize(sc, doc)
	assert.True(t, errs.IsValidation(err))
}

func TestSaveOpenJSON(t *testing.T) {
	bus := events.New()
	var seen []string
	for _, name := range []string{SavedEvent, LoadedEvent} {
		_, err := bus.Subscribe(name, func(ev *events.Event) error {
			seen = append(seen, ev.Name)
			return nil
		})
		require.NoError(t, err)
	}

	sr := New(nil)
	src := newTestScene(t, bus)
	populate(t, src)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, sr.SaveJSON(src, path))

	dst := newTestScene(t, bus)
	require.NoError(t, sr.OpenJSON(dst, path))
	assert.Equal(t, 2, dst.ObjectCount())
	assert.Len(t, dst.Lights(), 1)
	assert.Equal(t, []string{SavedEvent, LoadedEvent}, seen)

	assert.Error(t, sr.OpenJSON(dst, filepath.Join(t.TempDir(), "missing.json")))
}

func TestOpenJSONRejectsGarbage(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o666))
	assert.True(t, errs.IsValidation(sr.OpenJSON(sc, path)))
}

func TestRoundTripOrthographicCamera(t *testing.T) {
	sr := New(nil)
	src, err := scene.NewScene("viewport", &scene.Config{
		NoAutoStart: true,
		Lights:      scene.LightsConfig{Disabled: true},
		Camera:      scene.CameraConfig{Kind: scene.Orthographic, Aspect: 2},
	})
	require.NoError(t, err)
	t.Cleanup(func() { src.Dispose() })
	require.NoError(t, src.Camera().SetOrthoExtents(-4, 4, 3, -3))

	doc, err := sr.Serialize(src)
	require.NoError(t, err)
	assert.InDelta(t, 2, doc.Camera.Aspect, 1e-5, "pinned aspect is recorded")

	dst, err := scene.NewScene("viewport", &scene.Config{
		NoAutoStart: true,
		Lights:      scene.LightsConfig{Disabled: true},
		Camera:      scene.CameraConfig{Kind: scene.Orthographic},
	})
	require.NoError(t, err)
	t.Cleanup(func() { dst.Dispose() })
	require.NoError(t, sr.Deserialize(dst, doc))

	left, right, top, bottom := dst.Camera().OrthoExtents()
	assert.InDelta(t, -4, left, 1e-5)
	assert.InDelta(t, 4, right, 1e-5)
	assert.InDelta(t, 3, top, 1e-5)
	assert.InDelta(t, -3, bottom, 1e-5)
	assert.True(t, dst.Camera().AspectPinned())
	assert.InDelta(t, 2, dst.Camera().Aspect(), 1e-5)
}
