// Package bench runs repeated routing attempts and reports latency and
// routing-quality percentile tables, modeled on the teacher's own
// query-latency benchmark harness (its per-level histogram table and
// progress-printing loop).
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/codahale/hdrhistogram"

	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/gridroute"
)

const (
	histMinLatency = 1 * time.Microsecond
	histMaxLatency = 100 * time.Second
	histSigFigs    = 1

	updateInterval = time.Second
)

// Strategy picks a net ordering and routes it.
type Strategy string

const (
	Sequential Strategy = "sequential"
	Genetic    Strategy = "ga"
)

// Result is one routing attempt's outcome, recorded by the harness and
// optionally persisted to run history.
type Result struct {
	Strategy    Strategy
	NetsRouted  int
	FailedCount int
	ViaCount    int
	WireLength  float64
	Latency     time.Duration
}

// Run executes one routing attempt with the given strategy and times it.
func Run(ctx context.Context, pcb *board.Pcb, cfg *config.Config, strategy Strategy) (Result, error) {
	start := time.Now()
	var (
		res gridroute.RouteResult
		err error
	)
	switch strategy {
	case Sequential:
		res, err = gridroute.RouteSequential(ctx, pcb, cfg)
	case Genetic:
		res, _, err = gridroute.RunGA(ctx, pcb, cfg)
	default:
		return Result{}, fmt.Errorf("bench: unknown strategy %q", strategy)
	}
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Strategy:    strategy,
		NetsRouted:  len(pcb.Nets()),
		FailedCount: res.FailedCount,
		ViaCount:    len(res.Vias),
		WireLength:  res.WireLength(),
		Latency:     elapsed,
	}, nil
}

// Harness accumulates histograms per strategy, printed in the teacher's own
// tabular percentile format.
type Harness struct {
	latency    map[Strategy]*hdrhistogram.Histogram
	wireLength map[Strategy]*hdrhistogram.Histogram
	viaCount   map[Strategy]*hdrhistogram.Histogram

	lastUpdate time.Time
	start      time.Time
	completed  int
}

func NewHarness() *Harness {
	return &Harness{
		latency:    make(map[Strategy]*hdrhistogram.Histogram),
		wireLength: make(map[Strategy]*hdrhistogram.Histogram),
		viaCount:   make(map[Strategy]*hdrhistogram.Histogram),
		start:      time.Now(),
		lastUpdate: time.Now(),
	}
}

func (h *Harness) histFor(s Strategy) (*hdrhistogram.Histogram, *hdrhistogram.Histogram, *hdrhistogram.Histogram) {
	if _, ok := h.latency[s]; !ok {
		h.latency[s] = hdrhistogram.New(histMinLatency.Nanoseconds(), histMaxLatency.Nanoseconds(), histSigFigs)
		h.wireLength[s] = hdrhistogram.New(0, 1000000, histSigFigs)
		h.viaCount[s] = hdrhistogram.New(0, 1000000, histSigFigs)
	}
	return h.latency[s], h.wireLength[s], h.viaCount[s]
}

// Record folds one run's result into the harness's histograms, printing a
// progress line every updateInterval.
func (h *Harness) Record(res Result) {
	lat, length, vias := h.histFor(res.Strategy)
	lat.RecordValue(res.Latency.Nanoseconds())
	length.RecordValue(int64(res.WireLength))
	vias.RecordValue(int64(res.ViaCount))
	h.completed++
	if now := time.Now(); now.Sub(h.lastUpdate) > updateInterval {
		h.lastUpdate = now
		fmt.Printf("finished %d runs in %s\n", h.completed, now.Sub(h.start))
	}
}

// PrintTable prints the per-strategy percentile table in the teacher's own
// column layout.
func (h *Harness) PrintTable() {
	for strategy, lat := range h.latency {
		if lat.TotalCount() == 0 {
			continue
		}
		length, vias := h.wireLength[strategy], h.viaCount[strategy]
		fmt.Printf("strategy %s\n", strategy)
		fmt.Println("_____numQ_pMin(ms)__p50(ms)__p95(ms)__p99(ms)_pMax(ms)___length50__length95___vias50___vias95")
		fmt.Printf("%8d %8.2f %8.2f %8.2f %8.2f %8.2f %9d %9d %8d %8d\n",
			lat.TotalCount(),
			time.Duration(lat.Min()).Seconds()*1000,
			time.Duration(lat.ValueAtQuantile(50)).Seconds()*1000,
			time.Duration(lat.ValueAtQuantile(95)).Seconds()*1000,
			time.Duration(lat.ValueAtQuantile(99)).Seconds()*1000,
			time.Duration(lat.Max()).Seconds()*1000,
			length.ValueAtQuantile(50),
			length.ValueAtQuantile(95),
			vias.ValueAtQuantile(50),
			vias.ValueAtQuantile(95),
		)
	}
}
