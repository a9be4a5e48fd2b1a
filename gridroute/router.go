// Package gridroute implements the grid router: see state.go for the
// package doc comment.
package gridroute

import (
	"context"

	"github.com/pkg/errors"

	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/geom"
	"pcbroute/obstacle"
)

// RouteResult is the outcome of routing one or more nets. FailedCount is not
// part of the external contract but lets the GA fitness function weigh
// multiple failures rather than collapsing them to one bool.
type RouteResult struct {
	Wires       []board.Wire
	Vias        []board.Via
	DebugRects  []geom.Rect
	Failed      bool
	FailedCount int
}

// Merge appends o's wires, vias, and debug rects onto r, and sticks Failed
// once any batch in the merge fails.
func (r *RouteResult) Merge(o RouteResult) {
	r.Wires = append(r.Wires, o.Wires...)
	r.Vias = append(r.Vias, o.Vias...)
	r.DebugRects = append(r.DebugRects, o.DebugRects...)
	r.Failed = r.Failed || o.Failed
	r.FailedCount += o.FailedCount
}

// WireLength sums the world-space length of every wire's path.
func (r RouteResult) WireLength() float64 {
	var total float64
	for _, w := range r.Wires {
		total += pathLength(w.Shape.Shape)
	}
	return total
}

// GridRouter runs the grid Dijkstra search over a rasterised view of a
// board, keeping a spatial-index obstacle model in step so wire and via
// shapes it reifies use the net's actual ruleset radius and via padstack.
// The search consults only the rasterised grid; clearance rules are not
// checked while routing.
type GridRouter struct {
	pcb  *board.Pcb
	cfg  *config.Config
	om   *obstacle.Model
	grid *Model
}

// New builds a router over pcb's current state. pcb is not mutated until
// RouteNets commits wires and vias to it.
func New(pcb *board.Pcb, cfg *config.Config) (*GridRouter, error) {
	om, err := obstacle.New(pcb, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "building obstacle model")
	}
	return &GridRouter{pcb: pcb, cfg: cfg, om: om, grid: NewModel(pcb, cfg)}, nil
}

// RouteNets routes every net in order, committing each net's result to the
// obstacle model and the rasterised grid before starting the next. A net
// that fails to route is recorded as failed; routing continues with the
// remaining nets (best-effort), per the caller-visible error-handling
// policy.
func (gr *GridRouter) RouteNets(ctx context.Context, order []board.Id) (RouteResult, error) {
	var result RouteResult
	for _, netID := range order {
		net, ok := gr.pcb.Net(netID)
		if !ok {
			return result, errors.Errorf("net %d not found", netID)
		}
		netResult, err := gr.routeNet(ctx, *net)
		if err != nil {
			if ctx.Err() != nil {
				result.Merge(netResult)
				return result, nil
			}
			return result, err
		}
		result.Merge(netResult)
	}
	if gr.cfg.Debug {
		result.DebugRects = append(result.DebugRects, gr.om.DebugRects()...)
	}
	return result, nil
}

func (gr *GridRouter) routeNet(ctx context.Context, net board.Net) (RouteResult, error) {
	if len(net.Pins) < 2 {
		return RouteResult{}, nil
	}

	states := make([]State, len(net.Pins))
	for i, ref := range net.Pins {
		s, err := gr.grid.pinRefState(ref)
		if err != nil {
			return RouteResult{}, err
		}
		states[i] = s
	}

	if err := gr.grid.markNet(-1, net); err != nil {
		return RouteResult{}, err
	}
	gr.om.RemoveNet(net)
	restore := func() {
		_ = gr.grid.markNet(1, net)
		if err := gr.om.AddNet(net); err != nil {
			panic(errors.Wrap(err, "re-adding net after route attempt"))
		}
	}

	srcs := []State{states[0]}
	dsts := append([]State(nil), states[1:]...)

	var result RouteResult
	for len(dsts) > 0 {
		path, reached, ok, err := gr.grid.dijkstra(ctx, srcs, dsts)
		if err != nil || !ok {
			restore()
			return RouteResult{Failed: true, FailedCount: 1}, err
		}

		wires, vias, err := gr.reifyPath(net.ID, path)
		if err != nil {
			restore()
			return RouteResult{Failed: true, FailedCount: 1}, err
		}
		for _, w := range wires {
			gr.commitWire(w)
			result.Wires = append(result.Wires, w)
		}
		for _, v := range vias {
			gr.commitVia(v)
			result.Vias = append(result.Vias, v)
		}

		dsts = removeState(dsts, reached)
		srcs = append(srcs, reached)
	}

	restore()
	return result, nil
}

func removeState(states []State, s State) []State {
	out := states[:0]
	for _, cand := range states {
		if cand != s {
			out = append(out, cand)
		}
	}
	return out
}

// reifyPath walks path collecting contiguous same-layer runs, turning each
// into a Wire and emitting a Via at every layer transition, per §4.3.
func (gr *GridRouter) reifyPath(netID board.Id, path []State) ([]board.Wire, []board.Via, error) {
	var wires []board.Wire
	var vias []board.Via

	i := 0
	for i < len(path) {
		j := i
		layer := path[i].Layer
		for j+1 < len(path) && path[j+1].Layer == layer {
			j++
		}
		run := path[i : j+1]
		pts := make([]geom.Pt, len(run))
		for k, s := range run {
			pts[k] = gr.grid.worldPtMid(s.Cell)
		}
		if len(pts) == 1 {
			pts = append(pts, pts[0])
		}
		w, err := gr.om.CreateWire(netID, layer, pts)
		if err != nil {
			return nil, nil, err
		}
		wires = append(wires, w)

		if j+1 < len(path) {
			v, err := gr.om.CreateVia(netID, gr.grid.worldPtMid(path[j].Cell))
			if err != nil {
				return nil, nil, err
			}
			vias = append(vias, v)
		}
		i = j + 1
	}
	return wires, vias, nil
}

func (gr *GridRouter) commitWire(w board.Wire) {
	gr.pcb.AddWire(w)
	gr.om.AddWire(w)
	gr.grid.markWire(1, w)
}

func (gr *GridRouter) commitVia(v board.Via) {
	gr.pcb.AddVia(v)
	gr.om.AddVia(v)
	gr.grid.markVia(1, v)
}

func pathLength(s geom.Shape) float64 {
	p, ok := s.(geom.Path)
	if !ok {
		return 0
	}
	var total float64
	for i := 0; i+1 < len(p.Pts); i++ {
		total += p.Pts[i].Dist(p.Pts[i+1])
	}
	return total
}
