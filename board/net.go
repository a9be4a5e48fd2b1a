package board

import "pcbroute/geom"

// PinRef names a pin by (component id, pin id); it is a lookup key, never a
// pointer, so the data model has no cyclic references.
type PinRef struct {
	Component Id
	Pin       Id
}

// Net is a set of pins that must be electrically connected.
type Net struct {
	ID   Id
	Pins []PinRef
}

// Wire is a single-layer copper trace belonging to a net.
type Wire struct {
	Shape LayerShape
	NetID Id
}

// Via is a vertical interconnect belonging to a net.
type Via struct {
	P        geom.Pt
	Padstack Padstack
	NetID    Id
}

func (v Via) Tf() geom.Tf { return geom.Translate(v.P) }
