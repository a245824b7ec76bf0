// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphAddRemove(t *testing.T) {
	g := NewGraph()
	a := NewObject("a", NewBoxGeometry(1, 1, 1), NewMaterial())
	b := NewObject("b", NewSphereGeometry(1), NewMaterial())

	g.Add(a)
	g.Add(b)
	g.Add(a) // duplicate is a no-op
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(a))

	assert.True(t, g.Remove(a))
	assert.False(t, g.Remove(a))
	assert.False(t, g.Contains(a))
	assert.Equal(t, 1, g.Len())

	g.Clear()
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Children())
}

func TestGraphChildrenIsACopy(t *testing.T) {
	g := NewGraph()
	g.Add(NewObject("a", nil, nil))
	kids := g.Children()
	kids[0] = nil
	assert.NotNil(t, g.Children()[0])
}

func TestObjectRelease(t *testing.T) {
	ob := NewObject("a", NewBoxGeometry(1, 1, 1), NewMaterial())
	ob.Release()
	assert.True(t, ob.Geometry.AsGeometryBase().Released())
	assert.True(t, ob.Material.Released())
	ob.Release()
}

func TestGraphConcurrentAccess(t *testing.T) {
	g := NewGraph()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 300; j++ {
				h := NewObject("h", nil, nil)
				g.Add(h)
				g.Contains(h)
				g.Children()
				g.Len()
				g.Remove(h)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, g.Len())
}
