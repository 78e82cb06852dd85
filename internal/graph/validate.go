package graph

import (
	"errors"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Validate checks the lower bounds of root and everything it contains. Writes
// never enforce lower bounds, so a graph under construction may violate
// them; Validate reports every violation at once.
func (e *Engine) Validate(root *Object) error {
	var errs []error
	check := func(o *Object) {
		for _, f := range o.class.AllFeatures() {
			if f.Derived || f.Lower == 0 {
				continue
			}
			if n := requiredCount(o, f); n < f.Lower {
				errs = append(errs, &mgerr.ArityError{Feature: f.QualifiedName(), Lower: f.Lower, Upper: f.Upper, Got: n})
			}
		}
	}
	check(root)
	for o := range root.AllContents() {
		check(o)
	}
	return errors.Join(errs...)
}

func requiredCount(o *Object, f *meta.Feature) int {
	if f.IsMany() || f.IsReference() {
		return o.count(f)
	}
	if s, ok := o.slots[f]; ok && s.set {
		return 1
	}
	return 0
}
