package gridroute

import (
	"container/heap"
	"context"
	"math"

	"pcbroute/board"
	"pcbroute/geom"
)

var sqrt2 = math.Sqrt2

// pqEntry is one priority-queue slot. Tie-breaking is deterministic: lower
// cost first, then layer, then cell.y, then cell.x, so two runs over
// identical inputs pop states in the same order.
type pqEntry struct {
	state State
	cost  float64
}

type priorityQueue []pqEntry

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.state.Layer != b.state.Layer {
		return a.state.Layer < b.state.Layer
	}
	if a.state.Cell.Y != b.state.Cell.Y {
		return a.state.Cell.Y < b.state.Cell.Y
	}
	return a.state.Cell.X < b.state.Cell.X
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) { *q = append(*q, x.(pqEntry)) }

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var inPlaneMoves = [8]struct {
	dx, dy int64
	cost   float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, sqrt2}, {1, -1, sqrt2}, {-1, 1, sqrt2}, {-1, -1, sqrt2},
}

// neighbors yields s's 8-connected in-plane moves plus one layer-change move
// per other physical layer, each costing cfg.ViaCost.
func (m *Model) neighbors(s State) []pqEntry {
	out := make([]pqEntry, 0, 8+m.numLayers-1)
	for _, mv := range inPlaneMoves {
		cell := geom.PI(s.Cell.X+mv.dx, s.Cell.Y+mv.dy)
		out = append(out, pqEntry{State{Cell: cell, Layer: s.Layer}, mv.cost})
	}
	for l := 0; l < m.numLayers; l++ {
		layer := board.LayerId(l)
		if layer == s.Layer {
			continue
		}
		out = append(out, pqEntry{State{Cell: s.Cell, Layer: layer}, m.cfg.ViaCost})
	}
	return out
}

// dijkstra runs a layered grid search from srcs to the nearest state in dsts.
// It returns the winning path (srcs-endpoint first, reached dst last) and
// which dst state was reached. ok is false when the frontier is exhausted or
// ctx is cancelled before a dst is popped.
func (m *Model) dijkstra(ctx context.Context, srcs, dsts []State) (path []State, reached State, ok bool, err error) {
	dist := make(map[State]float64)
	prev := make(map[State]State)
	visited := make(map[State]bool)
	dstSet := make(map[State]bool, len(dsts))
	for _, d := range dsts {
		dstSet[d] = true
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	for _, s := range srcs {
		if _, seen := dist[s]; seen {
			continue
		}
		dist[s] = 0
		heap.Push(pq, pqEntry{s, 0})
	}

	iterations := 0
	for pq.Len() > 0 {
		iterations++
		if m.cfg.CancelCheckInterval > 0 && iterations%m.cfg.CancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, State{}, false, ctx.Err()
			default:
			}
		}

		entry := heap.Pop(pq).(pqEntry)
		s := entry.state
		if visited[s] {
			continue
		}
		if entry.cost > dist[s] {
			continue
		}
		visited[s] = true

		if dstSet[s] {
			return m.reconstructPath(prev, s), s, true, nil
		}

		for _, nb := range m.neighbors(s) {
			if visited[nb.state] {
				continue
			}
			if m.isStateBlocked(nb.state) {
				continue
			}
			nd := dist[s] + nb.cost
			if old, seen := dist[nb.state]; !seen || nd < old {
				dist[nb.state] = nd
				prev[nb.state] = s
				heap.Push(pq, pqEntry{nb.state, nd})
			}
		}
	}
	return nil, State{}, false, nil
}

func (m *Model) reconstructPath(prev map[State]State, dst State) []State {
	var rev []State
	cur := dst
	for {
		rev = append(rev, cur)
		p, ok := prev[cur]
		if !ok {
			break
		}
		cur = p
	}
	path := make([]State, len(rev))
	for i, s := range rev {
		path[len(rev)-1-i] = s
	}
	return path
}
