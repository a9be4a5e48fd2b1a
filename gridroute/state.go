// Package gridroute implements the grid router: rasterising the board to a
// uniform grid, running a per-net layered Dijkstra search, reifying the
// winning path into wires and vias, and the sequential/genetic strategies
// that choose a net processing order.
package gridroute

import (
	"pcbroute/board"
	"pcbroute/geom"
)

// State is one search-space node: a grid cell on a layer.
type State struct {
	Cell  geom.PtI
	Layer board.LayerId
}

// BlockMap counts obstacle markings per (cell, layer). A state is blocked
// when its count, or the count of its (cell, AnyLayer) entry, is positive.
type BlockMap map[State]int64

func (b BlockMap) mark(s State, count int64) {
	b[s] += count
}

// Blocked reports whether s currently carries any obstacle marking, either
// directly or via the board-wide AnyLayer sentinel.
func (b BlockMap) Blocked(s State) bool {
	if b[s] > 0 {
		return true
	}
	return b[State{Cell: s.Cell, Layer: board.AnyLayer}] > 0
}
