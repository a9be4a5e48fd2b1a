package board

import "pcbroute/geom"

// Padstack is an ordered list of per-layer shapes describing a pin or via
// opening, plus whether it is attached (soldered) copper.
type Padstack struct {
	ID     Id
	Shapes []LayerShape
	Attach bool
}

// Layers returns the union of every shape's LayerSet.
func (p Padstack) Layers() LayerSet {
	var s LayerSet
	for _, ls := range p.Shapes {
		s = s.Union(ls.Layers)
	}
	return s
}

func (p *Padstack) Flip(numLayers int) {
	for i := range p.Shapes {
		p.Shapes[i].Flip(numLayers)
	}
}

// Pin is a terminal on a component: a padstack at a local offset and
// rotation.
type Pin struct {
	ID        Id
	Padstack  Padstack
	Rotation  float64
	P         geom.Pt
}

// Tf returns the pin's transform relative to its owning component's origin.
func (p Pin) Tf() geom.Tf {
	return geom.Rotate(p.Rotation).Then(geom.Translate(p.P))
}

func (p *Pin) Flip(numLayers int) { p.Padstack.Flip(numLayers) }
