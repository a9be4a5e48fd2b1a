// Package fixture loads a board from a JSON description. It stands in for
// the excluded DSN import pipeline (§6 collaborator contract): it produces a
// fully populated Pcb, canonicalises polygon vertices, and flips any
// component marked as mounted on the back side.
package fixture

import "pcbroute/geom"

type doc struct {
	Layers          []layerDoc      `json:"layers"`
	Boundaries      []layerShapeDoc `json:"boundaries"`
	Keepouts        []keepoutDoc    `json:"keepouts"`
	ViaPadstacks    []padstackDoc   `json:"via_padstacks"`
	Components      []componentDoc  `json:"components"`
	Nets            []netDoc        `json:"nets"`
	RuleSets        []rulesetDoc    `json:"rulesets"`
	DefaultRuleSet  string          `json:"default_ruleset"`
}

type layerDoc struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "signal", "power", "mixed", "jumper", "all"
}

type pointDoc struct {
	X, Y float64
}

// shapeDoc is a tagged union over every geom.Shape variant a fixture can
// describe. Only the fields relevant to Kind are populated.
type shapeDoc struct {
	Kind   string     `json:"kind"`
	L      float64    `json:"l,omitempty"`
	B      float64    `json:"b,omitempty"`
	W      float64    `json:"w,omitempty"`
	H      float64    `json:"h,omitempty"`
	Center pointDoc   `json:"center,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Pts    []pointDoc `json:"pts,omitempty"`
}

type layerShapeDoc struct {
	Layers []string `json:"layers"` // empty => empty LayerSet; see toLayerSet for how it is treated
	Shape  shapeDoc `json:"shape"`
}

type keepoutDoc struct {
	Kind  string        `json:"kind"` // "all", "via", "wire"
	Shape layerShapeDoc `json:"shape"`
}

type padstackDoc struct {
	Name   string          `json:"name"`
	Attach bool            `json:"attach"`
	Shapes []layerShapeDoc `json:"shapes"`
}

type pinDoc struct {
	Name     string      `json:"name"`
	Padstack padstackDoc `json:"padstack"`
	Rotation float64     `json:"rotation"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
}

type componentDoc struct {
	Name      string          `json:"name"`
	Footprint string          `json:"footprint"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Rotation  float64         `json:"rotation"`
	Side      string          `json:"side"` // "Front" (default) or "Back"
	Outlines  []layerShapeDoc `json:"outlines"`
	Keepouts  []keepoutDoc    `json:"keepouts"`
	Pins      []pinDoc        `json:"pins"`
}

type pinRefDoc struct {
	Component string `json:"component"`
	Pin       string `json:"pin"`
}

type netDoc struct {
	Name string      `json:"name"`
	Pins []pinRefDoc `json:"pins"`
}

type ruleDoc struct {
	Kind   string     `json:"kind"` // "radius", "clearance", "usevia"
	Radius float64    `json:"radius,omitempty"`
	Amount float64    `json:"amount,omitempty"`
	Pairs  [][2]string `json:"pairs,omitempty"`
	Via    string     `json:"via,omitempty"`
}

type rulesetDoc struct {
	Name  string    `json:"name"`
	Rules []ruleDoc `json:"rules"`
	Nets  []string  `json:"nets,omitempty"`
}

func toPt(p pointDoc) geom.Pt { return geom.P(p.X, p.Y) }

func toPts(ps []pointDoc) []geom.Pt {
	out := make([]geom.Pt, len(ps))
	for i, p := range ps {
		out[i] = toPt(p)
	}
	return out
}
