package gridroute

import (
	"context"
	"testing"

	"pcbroute/board"
	"pcbroute/geom"
)

func TestDijkstraFindsStraightPath(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	m := NewModel(pcb, testConfig())

	src := State{Cell: m.gridPt(geom.P(2, 10)), Layer: 0}
	dst := State{Cell: m.gridPt(geom.P(18, 10)), Layer: 0}

	path, reached, ok, err := m.dijkstra(context.Background(), []State{src}, []State{dst})
	if err != nil {
		t.Fatalf("dijkstra: %v", err)
	}
	if !ok {
		t.Fatalf("dijkstra did not find a path across an empty board")
	}
	if reached != dst {
		t.Fatalf("reached=%v, want %v", reached, dst)
	}
	if path[0] != src {
		t.Fatalf("path[0]=%v, want src %v", path[0], src)
	}
	if path[len(path)-1] != dst {
		t.Fatalf("path last=%v, want dst %v", path[len(path)-1], dst)
	}
}

func TestDijkstraNoPathWhenDstUnreachable(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	m := NewModel(pcb, testConfig())

	src := State{Cell: m.gridPt(geom.P(2, 10)), Layer: 0}
	dst := State{Cell: geom.PI(1000, 1000), Layer: 0} // far outside the boundary

	_, _, ok, err := m.dijkstra(context.Background(), []State{src}, []State{dst})
	if err != nil {
		t.Fatalf("dijkstra: %v", err)
	}
	if ok {
		t.Fatalf("dijkstra should not find a path to a state outside the boundary")
	}
}

func TestDijkstraRespectsCancellation(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	cfg := testConfig()
	cfg.CancelCheckInterval = 1
	m := NewModel(pcb, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := State{Cell: m.gridPt(geom.P(2, 10)), Layer: 0}
	dst := State{Cell: m.gridPt(geom.P(18, 10)), Layer: 0}
	_, _, ok, err := m.dijkstra(ctx, []State{src}, []State{dst})
	if err == nil {
		t.Fatalf("dijkstra should return an error once ctx is already cancelled")
	}
	if ok {
		t.Fatalf("dijkstra should report ok=false on cancellation")
	}
}

func TestNeighborsIncludesOneViaMovePerOtherLayer(t *testing.T) {
	t.Parallel()
	pcb := buildTwoPinPcb(t)
	pcb.AddLayer(board.Layer{NameID: pcb.ToID("bottom"), LayerID: 1, Kind: board.LayerSignal})
	m := NewModel(pcb, testConfig())

	nbs := m.neighbors(State{Cell: geom.PI(5, 5), Layer: 0})
	viaMoves := 0
	for _, nb := range nbs {
		if nb.state.Cell == (geom.PI(5, 5)) && nb.state.Layer != 0 {
			viaMoves++
		}
	}
	if viaMoves != m.numLayers-1 {
		t.Fatalf("via moves=%d, want %d", viaMoves, m.numLayers-1)
	}
}
