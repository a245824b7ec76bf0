// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "sync"

// Graph is the native retained-mode scene graph: a flat, ordered set of
// handles the renderer draws. Structural operations are safe for
// concurrent use; the render loop reads the graph while the owning scene
// mutates it.
//
// The graph can be mutated directly, bypassing the scene layer's tracking.
// scene.Sync reconciles tracking against the graph for exactly that case.
type Graph struct {
	mu       sync.RWMutex
	children []Handle
}

// NewGraph returns a new empty scene graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a handle to the graph. Adding a handle already present is
// a no-op.
func (g *Graph) Add(h Handle) {
	if h == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.contains(h) {
		return
	}
	g.children = append(g.children, h)
}

// Remove removes a handle from the graph, reporting whether it was present.
func (g *Graph) Remove(h Handle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range g.children {
		if c == h {
			g.children = append(g.children[:i:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Graph) contains(h Handle) bool {
	for _, c := range g.children {
		if c == h {
			return true
		}
	}
	return false
}

// Contains reports whether the handle is present in the graph.
func (g *Graph) Contains(h Handle) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.contains(h)
}

// Children returns a copy of the graph's handles in draw order.
func (g *Graph) Children() []Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Handle, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of handles in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.children)
}

// Clear removes every handle from the graph.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = nil
}
