// internal/fragment/path.go
package fragment

import (
	"reflect"
	"strconv"
	"strings"
)

// String serializes the path into its canonical fragment.
func (p *Path) String() string {
	if p.IsRoot() {
		return "/"
	}

	var sb strings.Builder
	for _, s := range p.Segments {
		sb.WriteRune('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

// String renders a single segment.
func (s Segment) String() string {
	if s.IsID() {
		return s.ID
	}
	if s.HasIndex() {
		return "@" + s.Feature + "." + strconv.Itoa(s.Index)
	}
	return "@" + s.Feature
}

// Equal checks for deep equality between two paths.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p.IsRoot() && other.IsRoot()
	}
	if len(p.Segments) == 0 && len(other.Segments) == 0 {
		return true
	}
	return reflect.DeepEqual(p.Segments, other.Segments)
}
