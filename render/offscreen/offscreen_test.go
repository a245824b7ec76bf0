// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package offscreen

import (
	"image"
	"testing"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCountsFrames(t *testing.T) {
	rd := New("viewport", image.Point{})
	assert.Equal(t, DefaultSize, rd.Size())

	g := render.NewGraph()
	g.Add(render.NewObject("a", render.NewBoxGeometry(1, 1, 1), render.NewMaterial()))
	cam := render.NewCameraHandle("cam")

	require.NoError(t, rd.Render(g, cam))
	require.NoError(t, rd.Render(g, cam))
	assert.Equal(t, 2, rd.Frames())
	assert.Equal(t, 1, rd.LastDrawCount())

	assert.True(t, errs.IsValidation(rd.Render(nil, cam)))
	assert.True(t, errs.IsValidation(rd.Render(g, nil)))
}

func TestReleaseFencesRender(t *testing.T) {
	rd := New("viewport", image.Pt(100, 50))
	require.NoError(t, rd.Release())
	require.NoError(t, rd.Release())
	err := rd.Render(render.NewGraph(), render.NewCameraHandle("cam"))
	assert.True(t, errs.IsDisposed(err))
}

func TestCanvasDetach(t *testing.T) {
	rd := New("viewport", image.Point{})
	cv := rd.Canvas()
	assert.Equal(t, "viewport", cv.Container())
	assert.True(t, cv.Attached())
	cv.Detach()
	cv.Detach()
	assert.False(t, cv.Attached())
	assert.Empty(t, cv.Container())
}

func TestSetSizeIgnoresInvalid(t *testing.T) {
	rd := New("viewport", image.Pt(10, 10))
	rd.SetSize(image.Pt(0, 5))
	assert.Equal(t, image.Pt(10, 10), rd.Size())
	rd.SetSize(image.Pt(20, 30))
	assert.Equal(t, image.Pt(20, 30), rd.Size())
}
