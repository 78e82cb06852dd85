// internal/fragment/parser.go
package fragment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// featureRegex parses a feature segment body, e.g. `children` or `children.3`.
var featureRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)(?:\.(\d+))?$`)

// idRegex restricts identifier segments to characters that never need
// escaping in a fragment.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:~-]+$`)

// Parse creates a Path from its fragment representation.
func Parse(raw string) (*Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("fragment cannot be empty")
	}
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("fragment %q must start with '/'", raw)
	}
	body := strings.TrimPrefix(strings.TrimPrefix(raw, "/"), "/")
	p := &Path{}
	if body == "" {
		return p, nil
	}

	for _, part := range strings.Split(body, "/") {
		if part == "" {
			return nil, fmt.Errorf("fragment %q contains an empty segment", raw)
		}
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

func parseSegment(part string) (Segment, error) {
	if !strings.HasPrefix(part, "@") {
		if !idRegex.MatchString(part) || part == "." || part == ".." {
			return Segment{}, fmt.Errorf("invalid identifier segment: %q", part)
		}
		return IDSegment(part), nil
	}

	matches := featureRegex.FindStringSubmatch(part[1:])
	if matches == nil {
		return Segment{}, fmt.Errorf("invalid feature segment: %q", part)
	}
	seg := FeatureSegment(matches[1])
	if matches[2] != "" {
		index, err := strconv.Atoi(matches[2])
		if err != nil {
			return Segment{}, fmt.Errorf("index of segment %q: %w", part, err)
		}
		seg.Index = index
	}
	return seg, nil
}
