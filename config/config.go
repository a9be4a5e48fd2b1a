// Package config holds the tunables the router core accepts from its
// caller, built with functional options over sensible defaults.
package config

// Config collects every tunable the core recognises.
type Config struct {
	// Resolution is the grid cell edge, in millimetres.
	Resolution float64
	// ViaCost is the fixed cost of a layer-change move in the grid
	// Dijkstra search. Must be >= sqrt(2) so an in-plane diagonal move is
	// never preferred over a strictly shorter via.
	ViaCost float64
	// TestThreshold is how many direct shape tests a spatial-index node
	// tolerates before splitting.
	TestThreshold int
	// MaxDepth bounds spatial-index subdivision.
	MaxDepth int
	// GAPopulation is the net-order GA's population size.
	GAPopulation int
	// GAGenerations is the number of GA generations to run.
	GAGenerations int
	// RngSeed seeds the GA's random number generator for reproducibility.
	RngSeed uint64
	// BoundaryAppliesAllLayers lets a single-layer boundary fixture bound
	// every layer rather than just the layers named in its LayerSet.
	BoundaryAppliesAllLayers bool
	// CancelCheckInterval is how many Dijkstra pops occur between checks
	// of the caller's cancellation signal.
	CancelCheckInterval int
	// Debug, when set, makes the grid router populate RouteResult's debug
	// rectangles with the partition rectangles of the obstacle model's
	// layer-1 spatial index. No unblocked-cell markers are emitted.
	Debug bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// Default returns the config with every documented default applied.
func Default() *Config {
	c := &Config{
		Resolution:          0.8,
		ViaCost:             2.0,
		TestThreshold:       4,
		MaxDepth:            7,
		GAPopulation:        50,
		GAGenerations:       30,
		RngSeed:             1,
		CancelCheckInterval: 4096,
	}
	return c
}

// New builds a Config from Default with opts applied in order.
func New(opts ...Option) *Config {
	c := Default()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithResolution(r float64) Option { return func(c *Config) { c.Resolution = r } }
func WithViaCost(v float64) Option    { return func(c *Config) { c.ViaCost = v } }
func WithTestThreshold(n int) Option  { return func(c *Config) { c.TestThreshold = n } }
func WithMaxDepth(n int) Option       { return func(c *Config) { c.MaxDepth = n } }
func WithGAPopulation(n int) Option   { return func(c *Config) { c.GAPopulation = n } }
func WithGAGenerations(n int) Option  { return func(c *Config) { c.GAGenerations = n } }
func WithRngSeed(s uint64) Option     { return func(c *Config) { c.RngSeed = s } }
func WithBoundaryAppliesAllLayers(b bool) Option {
	return func(c *Config) { c.BoundaryAppliesAllLayers = b }
}
func WithCancelCheckInterval(n int) Option {
	return func(c *Config) { c.CancelCheckInterval = n }
}
func WithDebug(b bool) Option { return func(c *Config) { c.Debug = b } }
