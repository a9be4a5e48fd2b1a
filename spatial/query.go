// Package spatial implements the quadtree-backed spatial index: a store of
// tagged, kind-labelled shapes supporting intersect/contain/nearest-distance
// queries, each filterable by owning tag and object kind.
package spatial

import "pcbroute/geom"

// ObjectKind is a bitmask category a stored shape belongs to.
type ObjectKind uint8

const (
	KindArea ObjectKind = 1 << iota
	KindPin
	KindSmd
	KindVia
	KindWire
)

// HasCommon reports whether k and o share any bit.
func (k ObjectKind) HasCommon(o ObjectKind) bool { return k&o != 0 }

// Tag identifies the owner of a stored shape — typically a net id.
type Tag int64

// NoTag marks an unowned shape (board outlines, keepouts, floating pins).
const NoTag Tag = -1

// TagQuery selects stored shapes by owning tag.
type TagQuery struct {
	kind tagQueryKind
	tag  Tag
}

type tagQueryKind int

const (
	tagAll tagQueryKind = iota
	tagIs
	tagExcept
)

func AnyTag() TagQuery           { return TagQuery{kind: tagAll} }
func IsTag(t Tag) TagQuery       { return TagQuery{kind: tagIs, tag: t} }
func ExceptTag(t Tag) TagQuery   { return TagQuery{kind: tagExcept, tag: t} }

func (q TagQuery) matches(tag Tag) bool {
	switch q.kind {
	case tagIs:
		return tag == q.tag
	case tagExcept:
		return tag != q.tag
	default:
		return true
	}
}

// KindsQuery selects stored shapes by object kind.
type KindsQuery struct {
	all   bool
	kinds ObjectKind
}

func AnyKind() KindsQuery                     { return KindsQuery{all: true} }
func HasCommonKind(k ObjectKind) KindsQuery    { return KindsQuery{kinds: k} }

func (q KindsQuery) matches(kinds ObjectKind) bool {
	if q.all {
		return true
	}
	return q.kinds.HasCommon(kinds)
}

// Query is a (TagQuery, KindsQuery) filter: a shape matches iff both hold.
type Query struct {
	Tag   TagQuery
	Kinds KindsQuery
}

// All matches every stored shape.
func All() Query { return Query{Tag: AnyTag(), Kinds: AnyKind()} }

// ShapeInfo is a shape together with its spatial-index metadata.
type ShapeInfo struct {
	Shape geom.Shape
	Tag   Tag
	Kinds ObjectKind
}

// Anon wraps a shape with no tag or kind, for untracked boundary/debug use.
func Anon(s geom.Shape) ShapeInfo { return ShapeInfo{Shape: s, Tag: NoTag} }

func matchesQuery(s ShapeInfo, q Query) bool {
	return q.Tag.matches(s.Tag) && q.Kinds.matches(s.Kinds)
}

// decomposeShapeInfo splits a Path into its capsule caps and a Compound into
// its constituent leaf shapes, so queries never have to recurse into a
// nested shape; each piece inherits the tag and kind mask of the original.
func decomposeShapeInfo(s ShapeInfo) []ShapeInfo {
	switch v := s.Shape.(type) {
	case geom.Path:
		caps := v.Caps()
		out := make([]ShapeInfo, 0, len(caps))
		for _, c := range caps {
			out = append(out, ShapeInfo{Shape: c, Tag: s.Tag, Kinds: s.Kinds})
		}
		return out
	case geom.Compound:
		var out []ShapeInfo
		for _, sub := range v.Shapes {
			out = append(out, decomposeShapeInfo(ShapeInfo{Shape: sub, Tag: s.Tag, Kinds: s.Kinds})...)
		}
		return out
	default:
		return []ShapeInfo{s}
	}
}
