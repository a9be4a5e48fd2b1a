package geom

import "math"

// Tf is a rigid affine transform: scale, then rotate, then translate,
// applied in that order. It is how a component's footprint (pads, outline)
// is placed onto the board from its local origin.
type Tf struct {
	scale          Pt
	cos, sin       float64
	tx, ty         float64
}

// Identity returns the no-op transform.
func Identity() Tf { return Tf{scale: Pt{1, 1}, cos: 1, sin: 0} }

// Translate returns a pure translation transform.
func Translate(p Pt) Tf { return Tf{scale: Pt{1, 1}, cos: 1, sin: 0, tx: p.X, ty: p.Y} }

// Rotate returns a pure rotation transform, degrees counter-clockwise.
func Rotate(degrees float64) Tf {
	rad := degrees * math.Pi / 180
	return Tf{scale: Pt{1, 1}, cos: math.Cos(rad), sin: math.Sin(rad)}
}

// Scale returns a pure (possibly anisotropic) scale transform.
func Scale(s Pt) Tf { return Tf{scale: s, cos: 1, sin: 0} }

// Then composes t followed by o: o.Apply(t.Apply(p)) for any p.
func (t Tf) Then(o Tf) Tf {
	p := t.Apply(Pt{0, 0})
	ex := t.Apply(Pt{1, 0}).Sub(p)
	ey := t.Apply(Pt{0, 1}).Sub(p)
	op := o.Apply(p)
	oex := o.Apply(p.Add(ex)).Sub(op)
	oey := o.Apply(p.Add(ey)).Sub(op)
	sy := oey.Len()
	if oex.Cross(oey) < 0 {
		sy = -sy // keep a reflection as a negative y scale
	}
	return Tf{
		scale: Pt{oex.Len(), sy},
		cos:   oex.X / math.Max(oex.Len(), Epsilon),
		sin:   oex.Y / math.Max(oex.Len(), Epsilon),
		tx:    op.X,
		ty:    op.Y,
	}
}

// Apply transforms a single point: scale, rotate, translate.
func (t Tf) Apply(p Pt) Pt {
	sx, sy := p.X*t.scale.X, p.Y*t.scale.Y
	rx := sx*t.cos - sy*t.sin
	ry := sx*t.sin + sy*t.cos
	return Pt{rx + t.tx, ry + t.ty}
}

// Shape transforms an arbitrary Shape by mapping its constituent points.
// Circles and capsules keep their radius scaled by the transform's mean
// scale factor; this is exact for the rigid (uniform-scale) transforms the
// board model actually uses.
func (t Tf) Shape(s Shape) Shape {
	meanScale := (math.Abs(t.scale.X) + math.Abs(t.scale.Y)) / 2
	switch v := s.(type) {
	case Rect:
		c := v.corners()
		return NewPolygon(applyAll(t, c[:]))
	case Circle:
		return NewCircle(t.Apply(v.Center), v.Radius*meanScale)
	case Point:
		return NewPoint(t.Apply(v.P))
	case Segment:
		return NewSegment(t.Apply(v.P0), t.Apply(v.P1))
	case Capsule:
		return NewCapsule(t.Apply(v.Seg.P0), t.Apply(v.Seg.P1), v.Radius*meanScale)
	case Triangle:
		return NewTriangle(t.Apply(v.A), t.Apply(v.B), t.Apply(v.C))
	case Polygon:
		return NewPolygon(applyAll(t, v.Pts))
	case Path:
		return NewPath(applyAll(t, v.Pts), v.Radius*meanScale)
	case Compound:
		shapes := make([]Shape, len(v.Shapes))
		for i, sub := range v.Shapes {
			shapes[i] = t.Shape(sub)
		}
		return NewCompound(shapes...)
	default:
		return s
	}
}

func applyAll(t Tf, pts []Pt) []Pt {
	out := make([]Pt, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}
