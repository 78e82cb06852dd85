package app

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/meta"
)

// lint reports metamodel smells that are legal but most likely mistakes.
func lint(pkgs []*meta.Package) []string {
	var out []string
	all := classes(pkgs)
	for _, c := range all {
		if c.IsAbstract() && !hasConcreteSubclass(c, all) {
			out = append(out, fmt.Sprintf("abstract class %s has no concrete subclass", c.Name()))
		}
		for _, f := range c.Features() {
			if f.Containment && f.Opposite() != nil && f.Opposite().Lower > 0 {
				out = append(out, fmt.Sprintf("%s requires a container; contained objects cannot be created on their own", f.Opposite().QualifiedName()))
			}
		}
	}
	for _, p := range pkgs {
		for _, c := range p.Classifiers() {
			if en, ok := c.(*meta.Enum); ok && len(en.Literals()) == 0 {
				out = append(out, fmt.Sprintf("enum %s has no literals", en.Name()))
			}
		}
	}
	return out
}

func hasConcreteSubclass(c *meta.Class, all []*meta.Class) bool {
	for _, other := range all {
		if other != c && !other.IsAbstract() && !other.IsInterface() && other.ConformsTo(c) {
			return true
		}
	}
	return false
}
