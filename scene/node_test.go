// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTransformAndEvents(t *testing.T) {
	bus := events.New()
	var changes []*events.Event
	for _, name := range []string{
		ObjectPositionChangedEvent, ObjectRotationChangedEvent,
		ObjectScaleChangedEvent, ObjectVisibilityChangedEvent,
	} {
		_, err := bus.Subscribe(name, func(ev *events.Event) error {
			changes = append(changes, ev)
			return nil
		})
		require.NoError(t, err)
	}

	box, err := NewBox(1, 2, 3)
	require.NoError(t, err)
	box.attach(bus)

	require.NoError(t, box.SetPos(1, 2, 3))
	assert.Equal(t, math32.Vec3(1, 2, 3), box.Pos())
	require.NoError(t, box.SetRot(0, 90, 0))
	require.NoError(t, box.SetScale(2, 2, 2))
	require.NoError(t, box.SetVisible(false))
	assert.False(t, box.Visible())

	require.Len(t, changes, 4)
	move := changes[0].Data.(*Change[math32.Vector3])
	assert.Equal(t, math32.Vector3{}, move.Old)
	assert.Equal(t, math32.Vec3(1, 2, 3), move.New)

	// Unchanged visibility is a silent no-op.
	require.NoError(t, box.SetVisible(false))
	assert.Len(t, changes, 4)
}

func TestNodeValidation(t *testing.T) {
	box, err := NewBox(1, 1, 1)
	require.NoError(t, err)

	assert.True(t, errs.IsValidation(box.SetScale(0, 1, 1)))
	assert.True(t, errs.IsValidation(box.SetOpacity(1.5)))
	assert.True(t, errs.IsValidation(box.SetOpacity(-0.1)))
	assert.True(t, errs.IsValidation(box.SetName("")))
}

func TestNodeLock(t *testing.T) {
	box, err := NewBox(1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, box.SetLocked(true))

	assert.True(t, errs.IsState(box.SetPos(1, 0, 0)))
	assert.True(t, errs.IsState(box.SetRot(1, 0, 0)))
	assert.True(t, errs.IsState(box.SetScale(2, 2, 2)))
	// Non-transform state stays mutable while locked.
	assert.NoError(t, box.SetVisible(false))

	require.NoError(t, box.SetLocked(false))
	assert.NoError(t, box.SetPos(1, 0, 0))
}

func TestNodeMaterialAndMetadata(t *testing.T) {
	box, err := NewBox(1, 1, 1)
	require.NoError(t, err)

	red := color.RGBA{R: 255, A: 255}
	require.NoError(t, box.SetColor(red))
	assert.Equal(t, red, box.Color())

	require.NoError(t, box.SetOpacity(0.5))
	assert.Equal(t, float32(0.5), box.Opacity())
	assert.True(t, box.Handle().Material.Transparent)

	require.NoError(t, box.SetTags("prop", "wood"))
	assert.True(t, box.HasTag("wood"))
	assert.False(t, box.HasTag("metal"))

	require.NoError(t, box.SetUserData("hp", 12))
	assert.Equal(t, 12, box.UserData()["hp"])
}

func TestNodeDispose(t *testing.T) {
	box, err := NewBox(1, 1, 1)
	require.NoError(t, err)
	geom := box.Handle().Geometry.AsGeometryBase()
	mat := box.Handle().Material

	box.Dispose()
	assert.True(t, box.IsDisposed())
	assert.Nil(t, box.Handle())
	assert.True(t, geom.Released())
	assert.True(t, mat.Released())

	// Idempotent, and every mutator is fenced afterward.
	box.Dispose()
	assert.True(t, errs.IsDisposed(box.SetPos(1, 1, 1)))
	assert.True(t, errs.IsDisposed(box.SetVisible(true)))
	assert.True(t, errs.IsDisposed(box.SetSize(2, 2, 2)))
}
