package fixture

import (
	"github.com/pkg/errors"

	"pcbroute/geom"
)

func toShape(sd shapeDoc) (geom.Shape, error) {
	switch sd.Kind {
	case "rect":
		return geom.NewRect(sd.L, sd.B, sd.W, sd.H), nil
	case "circle":
		return geom.NewCircle(toPt(sd.Center), sd.Radius), nil
	case "point":
		if len(sd.Pts) != 1 {
			return nil, errors.Errorf("fixture: point shape needs exactly 1 pt, got %d", len(sd.Pts))
		}
		return geom.NewPoint(toPt(sd.Pts[0])), nil
	case "segment":
		if len(sd.Pts) != 2 {
			return nil, errors.Errorf("fixture: segment shape needs exactly 2 pts, got %d", len(sd.Pts))
		}
		pts := toPts(sd.Pts)
		return geom.NewSegment(pts[0], pts[1]), nil
	case "capsule":
		if len(sd.Pts) != 2 {
			return nil, errors.Errorf("fixture: capsule shape needs exactly 2 pts, got %d", len(sd.Pts))
		}
		pts := toPts(sd.Pts)
		return geom.NewCapsule(pts[0], pts[1], sd.Radius), nil
	case "triangle":
		if len(sd.Pts) != 3 {
			return nil, errors.Errorf("fixture: triangle shape needs exactly 3 pts, got %d", len(sd.Pts))
		}
		pts := toPts(sd.Pts)
		return geom.NewTriangle(pts[0], pts[1], pts[2]), nil
	case "polygon":
		if len(sd.Pts) < 3 {
			return nil, errors.Errorf("fixture: polygon shape needs at least 3 pts, got %d", len(sd.Pts))
		}
		return geom.NewPolygon(toPts(sd.Pts)), nil
	case "path":
		if len(sd.Pts) < 1 {
			return nil, errors.Errorf("fixture: path shape needs at least 1 pt")
		}
		return geom.NewPath(toPts(sd.Pts), sd.Radius), nil
	default:
		return nil, errors.Errorf("fixture: unknown shape kind %q", sd.Kind)
	}
}
