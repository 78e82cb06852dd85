package meta

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Descriptor is implemented by every descriptor that is itself described by
// a bootstrap meta-class.
type Descriptor interface {
	MetaClass() *Class
}

// Classifier is the value type of a feature: a *Class, a *DataType or an
// *Enum.
type Classifier interface {
	Descriptor
	Name() string
	Package() *Package
	// Conforms reports whether value may be stored in a slot typed by this
	// classifier.
	Conforms(value any) bool
	DefaultValue() any
	setPackage(p *Package)
}

// Instance is implemented by graph objects so that class conformance can be
// checked without this package knowing about the graph.
type Instance interface {
	Class() *Class
}

// Package is a named namespace of classifiers.
type Package struct {
	Name     string
	NsURI    string
	NsPrefix string

	classifiers []Classifier
	subpackages []*Package
	super       *Package
}

// NewPackage creates an empty package.
func NewPackage(name, nsURI, nsPrefix string) *Package {
	return &Package{Name: name, NsURI: nsURI, NsPrefix: nsPrefix}
}

func (p *Package) MetaClass() *Class { return MetaPackage }

// AddClassifier adds c to the package. Names must be unique within a package
// and a classifier belongs to at most one package.
func (p *Package) AddClassifier(c Classifier) error {
	if c.Package() != nil {
		return fmt.Errorf("classifier %q already belongs to package %q", c.Name(), c.Package().Name)
	}
	if _, ok := p.Classifier(c.Name()); ok {
		return fmt.Errorf("package %q already has a classifier named %q", p.Name, c.Name())
	}
	c.setPackage(p)
	p.classifiers = append(p.classifiers, c)
	return nil
}

// MustAdd adds every classifier and panics on the first failure. It is meant
// for statically known metamodels.
func (p *Package) MustAdd(cs ...Classifier) *Package {
	for _, c := range cs {
		if err := p.AddClassifier(c); err != nil {
			panic(err)
		}
	}
	return p
}

// Classifiers returns the package's classifiers in insertion order.
func (p *Package) Classifiers() []Classifier {
	return append([]Classifier(nil), p.classifiers...)
}

// Classifier returns the classifier named name.
func (p *Package) Classifier(name string) (Classifier, bool) {
	for _, c := range p.classifiers {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Class returns the class named name or nil.
func (p *Package) Class(name string) *Class {
	c, _ := p.Classifier(name)
	cls, _ := c.(*Class)
	return cls
}

// AddSubpackage nests sub under p.
func (p *Package) AddSubpackage(sub *Package) error {
	if sub.super != nil {
		return fmt.Errorf("package %q already nested in %q", sub.Name, sub.super.Name)
	}
	for q := p; q != nil; q = q.super {
		if q == sub {
			return &mgerr.CycleError{Kind: "package", Path: []string{sub.Name, p.Name}}
		}
	}
	sub.super = p
	p.subpackages = append(p.subpackages, sub)
	return nil
}

// Subpackages returns the nested packages.
func (p *Package) Subpackages() []*Package {
	return append([]*Package(nil), p.subpackages...)
}

// SuperPackage returns the enclosing package or nil.
func (p *Package) SuperPackage() *Package { return p.super }

// Validate checks every class of the package, and of its subpackages, for
// descriptor-level consistency and reports all problems at once.
func (p *Package) Validate() error {
	var errs []string
	p.validate(&errs)
	if len(errs) > 0 {
		return fmt.Errorf("metamodel validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (p *Package) validate(errs *[]string) {
	for _, c := range p.classifiers {
		cls, ok := c.(*Class)
		if !ok {
			continue
		}
		for _, f := range cls.features {
			*errs = append(*errs, f.problems()...)
		}
		for _, op := range cls.ops {
			for _, param := range op.Params {
				if param.Type == nil {
					*errs = append(*errs, fmt.Sprintf("operation %s.%s: parameter %q has no type", cls.name, op.Name, param.Name))
				}
			}
		}
	}
	for _, sub := range p.subpackages {
		sub.validate(errs)
	}
}

// Registry indexes packages by namespace URI.
type Registry struct {
	packages map[string]*Package
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{packages: make(map[string]*Package)}
}

// Register adds p and its subpackages. A namespace URI may only be
// registered once.
func (r *Registry) Register(p *Package) error {
	if p.NsURI == "" {
		return fmt.Errorf("package %q has no namespace URI", p.Name)
	}
	if _, ok := r.packages[p.NsURI]; ok {
		return fmt.Errorf("namespace %q is already registered", p.NsURI)
	}
	r.packages[p.NsURI] = p
	r.order = append(r.order, p.NsURI)
	for _, sub := range p.subpackages {
		if sub.NsURI == "" {
			continue
		}
		if err := r.Register(sub); err != nil {
			return err
		}
	}
	return nil
}

// Package returns the package registered for nsURI.
func (r *Registry) Package(nsURI string) (*Package, bool) {
	p, ok := r.packages[nsURI]
	return p, ok
}

// Packages returns the registered packages in registration order.
func (r *Registry) Packages() []*Package {
	out := make([]*Package, 0, len(r.order))
	for _, uri := range r.order {
		out = append(out, r.packages[uri])
	}
	return out
}

// Lookup resolves a qualified classifier name of the form "nsURI#Name".
func (r *Registry) Lookup(qualified string) (Classifier, error) {
	uri, name, ok := strings.Cut(qualified, "#")
	if !ok {
		return nil, fmt.Errorf("%w: %q is not of the form nsURI#Name", mgerr.ErrUnknownClassifier, qualified)
	}
	p, ok := r.packages[uri]
	if !ok {
		return nil, fmt.Errorf("%w: no package registered for %q", mgerr.ErrUnknownClassifier, uri)
	}
	c, ok := p.Classifier(name)
	if !ok {
		return nil, fmt.Errorf("%w: package %q has no classifier %q", mgerr.ErrUnknownClassifier, p.Name, name)
	}
	return c, nil
}
