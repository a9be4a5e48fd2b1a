package board

import (
	"github.com/pkg/errors"

	"pcbroute/spatial"
)

// Clearance is a minimum distance that must hold between objects of given
// kinds. subsetFor(k) is the set of kinds that must stay Amount away from an
// object of kind k; pairs are always inserted symmetrically.
type Clearance struct {
	Amount float64
	subset [5]spatial.ObjectKind // indexed by kindIndex(kind)
}

func kindIndex(k spatial.ObjectKind) int {
	switch k {
	case spatial.KindArea:
		return 0
	case spatial.KindPin:
		return 1
	case spatial.KindSmd:
		return 2
	case spatial.KindVia:
		return 3
	default: // spatial.KindWire
		return 4
	}
}

// NewClearance builds a clearance of the given amount, applying symmetrically
// to each (a, b) kind pair: a clears against b and b clears against a.
func NewClearance(amount float64, pairs ...[2]spatial.ObjectKind) Clearance {
	c := Clearance{Amount: amount}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		c.subset[kindIndex(a)] |= b
		c.subset[kindIndex(b)] |= a
	}
	return c
}

// SubsetFor returns the kinds that an object of kind k must keep Amount away
// from, per this clearance.
func (c Clearance) SubsetFor(k spatial.ObjectKind) spatial.ObjectKind {
	return c.subset[kindIndex(k)]
}

// RuleKind distinguishes the variants a Rule may hold.
type RuleKind int

const (
	RuleRadius RuleKind = iota
	RuleClearance
	RuleUseVia
)

// Rule is one design rule: a trace radius, a clearance, or a preferred via.
type Rule struct {
	Kind      RuleKind
	Radius    float64
	Clearance Clearance
	ViaID     Id
}

func RadiusRule(r float64) Rule          { return Rule{Kind: RuleRadius, Radius: r} }
func ClearanceRule(c Clearance) Rule      { return Rule{Kind: RuleClearance, Clearance: c} }
func UseViaRule(id Id) Rule              { return Rule{Kind: RuleUseVia, ViaID: id} }

// RuleSet is a named bundle of rules assignable to one or more nets. At most
// one Radius rule may appear.
type RuleSet struct {
	ID     Id
	rules  []Rule
	radius *float64
}

// NewRuleSet validates rules and builds a RuleSet. It errors if more than one
// Radius rule is present.
func NewRuleSet(id Id, rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{ID: id, rules: rules}
	for _, r := range rules {
		if r.Kind != RuleRadius {
			continue
		}
		if rs.radius != nil {
			return nil, errors.Errorf("ruleset %d: multiple radius rules", id)
		}
		radius := r.Radius
		rs.radius = &radius
	}
	return rs, nil
}

// Radius returns the set's trace half-width. Panics if no Radius rule was
// supplied; callers must construct RuleSets with one.
func (rs *RuleSet) Radius() float64 {
	if rs.radius == nil {
		panic(errors.Errorf("ruleset %d has no radius rule", rs.ID))
	}
	return *rs.radius
}

// Clearances returns every Clearance rule in the set.
func (rs *RuleSet) Clearances() []Clearance {
	var out []Clearance
	for _, r := range rs.rules {
		if r.Kind == RuleClearance {
			out = append(out, r.Clearance)
		}
	}
	return out
}

// PreferredVia returns the ruleset's UseVia rule's padstack id, if any.
func (rs *RuleSet) PreferredVia() (Id, bool) {
	for _, r := range rs.rules {
		if r.Kind == RuleUseVia {
			return r.ViaID, true
		}
	}
	return 0, false
}
