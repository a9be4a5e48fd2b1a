package gridroute

import (
	"context"
	"sort"

	"pcbroute/board"
	"pcbroute/config"
)

// SequentialOrder returns every net id in the board, sorted ascending —
// the deterministic baseline ordering.
func SequentialOrder(pcb *board.Pcb) []board.Id {
	nets := pcb.Nets()
	order := make([]board.Id, len(nets))
	for i, n := range nets {
		order[i] = n.ID
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}

// RouteSequential builds a fresh router over pcb and routes nets in id
// order.
func RouteSequential(ctx context.Context, pcb *board.Pcb, cfg *config.Config) (RouteResult, error) {
	gr, err := New(pcb, cfg)
	if err != nil {
		return RouteResult{}, err
	}
	return gr.RouteNets(ctx, SequentialOrder(pcb))
}

// RouteOrder builds a fresh router over pcb and routes nets in the given
// order. The wires and vias it routes are added to pcb itself; RunGA passes
// each candidate permutation a pcb.Clone() so that evaluations stay
// independent.
func RouteOrder(ctx context.Context, pcb *board.Pcb, cfg *config.Config, order []board.Id) (RouteResult, error) {
	gr, err := New(pcb, cfg)
	if err != nil {
		return RouteResult{}, err
	}
	return gr.RouteNets(ctx, order)
}
