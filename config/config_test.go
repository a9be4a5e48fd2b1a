package config

import "testing"

func TestDefaultValues(t *testing.T) {
	t.Parallel()
	c := Default()
	if c.ViaCost < 1.4142 {
		t.Fatalf("ViaCost=%v, must be >= sqrt(2) so a via is never cheaper than a diagonal move", c.ViaCost)
	}
	if c.Resolution <= 0 {
		t.Fatalf("Resolution=%v, want > 0", c.Resolution)
	}
}

func TestNewAppliesOptionsOverDefaults(t *testing.T) {
	t.Parallel()
	c := New(
		WithResolution(0.5),
		WithGAPopulation(10),
		WithGAGenerations(5),
		WithRngSeed(99),
		WithDebug(true),
	)
	if c.Resolution != 0.5 {
		t.Fatalf("Resolution=%v, want 0.5", c.Resolution)
	}
	if c.GAPopulation != 10 {
		t.Fatalf("GAPopulation=%d, want 10", c.GAPopulation)
	}
	if c.GAGenerations != 5 {
		t.Fatalf("GAGenerations=%d, want 5", c.GAGenerations)
	}
	if c.RngSeed != 99 {
		t.Fatalf("RngSeed=%d, want 99", c.RngSeed)
	}
	if !c.Debug {
		t.Fatalf("Debug=false, want true")
	}
	if c.ViaCost != Default().ViaCost {
		t.Fatalf("unset fields should keep their default values")
	}
}
