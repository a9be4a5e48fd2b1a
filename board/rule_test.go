package board

import (
	"testing"

	"pcbroute/spatial"
)

func TestNewRuleSetRejectsMultipleRadiusRules(t *testing.T) {
	t.Parallel()
	_, err := NewRuleSet(1, []Rule{RadiusRule(0.2), RadiusRule(0.3)})
	if err == nil {
		t.Fatalf("NewRuleSet should reject two radius rules")
	}
}

func TestRuleSetRadiusPanicsWithoutRadiusRule(t *testing.T) {
	t.Parallel()
	rs, err := NewRuleSet(1, nil)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("Radius() should panic when no radius rule was supplied")
		}
	}()
	rs.Radius()
}

func TestClearanceSubsetIsSymmetric(t *testing.T) {
	t.Parallel()
	c := NewClearance(0.5, [2]spatial.ObjectKind{spatial.KindWire, spatial.KindVia})
	if !c.SubsetFor(spatial.KindWire).HasCommon(spatial.KindVia) {
		t.Fatalf("wire should clear against via")
	}
	if !c.SubsetFor(spatial.KindVia).HasCommon(spatial.KindWire) {
		t.Fatalf("clearance pairs must be inserted symmetrically")
	}
	if c.SubsetFor(spatial.KindPin).HasCommon(spatial.KindWire) {
		t.Fatalf("an unrelated kind should have no clearance subset")
	}
}

func TestRuleSetPreferredVia(t *testing.T) {
	t.Parallel()
	rs, err := NewRuleSet(1, []Rule{UseViaRule(42)})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	id, ok := rs.PreferredVia()
	if !ok || id != 42 {
		t.Fatalf("PreferredVia()=(%d,%v), want (42,true)", id, ok)
	}

	rsNone, err := NewRuleSet(2, nil)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	if _, ok := rsNone.PreferredVia(); ok {
		t.Fatalf("PreferredVia() should report false when no UseVia rule exists")
	}
}
