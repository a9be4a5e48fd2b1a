package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"pcbroute/bench"
	"pcbroute/board"
	"pcbroute/config"
	"pcbroute/fixture"
	"pcbroute/gridroute"
)

func routeCmd(args []string) error {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	ga := fs.Bool("ga", false, "search net orderings with the permutation GA instead of routing sequentially")
	resolution := fs.Float64("resolution", 0, "grid resolution override (0 keeps the default)")
	debug := fs.Bool("debug", false, "populate RouteResult's debug rectangles")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: route [-ga] [-resolution mm] <fixture.json>")
	}

	pcb, cfg, err := loadFixture(fs.Arg(0), *resolution, *debug)
	if err != nil {
		return err
	}

	ctx, cancel := withInterrupt(context.Background())
	defer cancel()

	var res gridroute.RouteResult
	if *ga {
		res, _, err = gridroute.RunGA(ctx, pcb, cfg)
	} else {
		res, err = gridroute.RouteSequential(ctx, pcb, cfg)
	}
	if err != nil {
		return err
	}
	fmt.Printf("routed %d wires, %d vias, %d nets failed, total length %.2f\n",
		len(res.Wires), len(res.Vias), res.FailedCount, res.WireLength())
	return nil
}

func benchCmd(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	strategy := fs.String("strategy", "sequential", "ordering strategy: sequential or ga")
	iterations := fs.Int("n", 10, "number of routing attempts to time")
	historyDir := fs.String("history", "", "pebble directory to append run history to (optional)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: bench [-strategy sequential|ga] [-n count] [-history dir] <fixture.json>")
	}

	pcb, cfg, err := loadFixture(fs.Arg(0), 0, false)
	if err != nil {
		return err
	}

	var hist *bench.History
	if *historyDir != "" {
		hist, err = bench.OpenHistory(*historyDir)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	ctx, cancel := withInterrupt(context.Background())
	defer cancel()

	harness := bench.NewHarness()
	for i := 0; i < *iterations; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		res, err := bench.Run(ctx, pcb.Clone(), cfg, bench.Strategy(*strategy))
		if err != nil {
			return err
		}
		harness.Record(res)
		if hist != nil {
			if err := hist.Record(pcb, res); err != nil {
				return err
			}
		}
	}
	harness.PrintTable()
	return nil
}

func benchPersistCmd(args []string) error {
	fs := flag.NewFlagSet("bench-persist", flag.ExitOnError)
	strategy := fs.String("strategy", "sequential", "ordering strategy: sequential or ga")
	iterations := fs.Int("n", 10, "number of routing attempts to time")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: bench-persist [-strategy sequential|ga] [-n count] <conn> <fixture.json>")
	}
	conn := fs.Arg(0)

	pcb, cfg, err := loadFixture(fs.Arg(1), 0, false)
	if err != nil {
		return err
	}

	ctx, cancel := withInterrupt(context.Background())
	defer cancel()

	var results []bench.Result
	for i := 0; i < *iterations; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		res, err := bench.Run(ctx, pcb.Clone(), cfg, bench.Strategy(*strategy))
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return bench.Persist(conn, results)
}

func loadFixture(path string, resolution float64, debug bool) (*board.Pcb, *config.Config, error) {
	pcb, err := fixture.Load(path)
	if err != nil {
		return nil, nil, err
	}
	opts := []config.Option{config.WithDebug(debug)}
	if resolution > 0 {
		opts = append(opts, config.WithResolution(resolution))
	}
	return pcb, config.New(opts...), nil
}

// withInterrupt returns a context cancelled on the process's first
// SIGINT, mirroring the teacher's own errgroup-plus-signal.Notify
// cancellation pattern.
func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	var g errgroup.Group
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-signalChan:
			fmt.Println("\nReceived an interrupt, stopping...")
			signal.Reset(os.Interrupt)
			cancel()
		}
		return nil
	})
	return ctx, cancel
}

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		log.Fatalf("usage: %s <route|bench|bench-persist> ...", os.Args[0])
	}

	var err error
	switch args[0] {
	case "route":
		err = routeCmd(args[1:])
	case "bench":
		err = benchCmd(args[1:])
	case "bench-persist":
		err = benchPersistCmd(args[1:])
	default:
		log.Fatalf("unknown command: %s", args[0])
	}
	if err != nil {
		log.Fatal(err)
	}
}
