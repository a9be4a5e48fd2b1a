package board

import "pcbroute/geom"

// LayerShape is a shape that exists, identically, on every layer in its set.
type LayerShape struct {
	Layers LayerSet
	Shape  geom.Shape
}

func (s *LayerShape) Flip(numLayers int) { s.Layers = s.Layers.Flip(numLayers) }

// Transformed returns a copy of s with its shape mapped through tf.
func (s LayerShape) Transformed(tf geom.Tf) LayerShape {
	return LayerShape{Layers: s.Layers, Shape: tf.Shape(s.Shape)}
}

// KeepoutKind restricts what a keepout forbids.
type KeepoutKind int

const (
	KeepoutAll KeepoutKind = iota
	KeepoutVia
	KeepoutWire
)

// Keepout is a region where routing of the given kind is forbidden.
type Keepout struct {
	Kind  KeepoutKind
	Shape LayerShape
}

func (k *Keepout) Flip(numLayers int) { k.Shape.Flip(numLayers) }
