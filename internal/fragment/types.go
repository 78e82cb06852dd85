// internal/fragment/types.go
package fragment

// Segment is one step of a path: a containment feature with an optional
// position, or an identifier.
type Segment struct {
	Feature string
	Index   int // -1 indicates no index is present.
	// ID is set for identifier segments; Feature is empty then.
	ID string
}

// FeatureSegment creates a segment without an index.
func FeatureSegment(feature string) Segment {
	return Segment{Feature: feature, Index: -1}
}

// IndexedSegment creates a segment addressing a position in a many-valued
// feature.
func IndexedSegment(feature string, index int) Segment {
	return Segment{Feature: feature, Index: index}
}

// IDSegment creates a segment matched against ID attributes.
func IDSegment(id string) Segment {
	return Segment{ID: id, Index: -1}
}

// HasIndex returns true if the segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// IsID reports whether s is an identifier segment.
func (s Segment) IsID() bool {
	return s.Feature == "" && s.ID != ""
}

// Path is the structured form of a fragment. An empty path addresses the
// root.
type Path struct {
	Segments []Segment
}

// IsRoot reports whether p addresses the root object.
func (p *Path) IsRoot() bool {
	return p == nil || len(p.Segments) == 0
}

// Append returns a copy of p extended by s.
func (p *Path) Append(s Segment) *Path {
	out := &Path{}
	if p != nil {
		out.Segments = append(out.Segments, p.Segments...)
	}
	out.Segments = append(out.Segments, s)
	return out
}
