// This file translates the decoded block structs into meta descriptors.

package hcldef

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

type pendingClass struct {
	block *classBlock
	cls   *meta.Class
	pkg   *meta.Package
}

type pendingAttribute struct {
	block *attributeBlock
	f     *meta.Feature
}

type pendingReference struct {
	block *referenceBlock
	f     *meta.Feature
}

// builder carries the state shared by the loading passes.
type builder struct {
	ctx      context.Context
	registry *meta.Registry

	packages []*meta.Package
	byURI    map[string]*meta.Package

	classes    []pendingClass
	attributes []pendingAttribute
	references []pendingReference

	diags hcl.Diagnostics
}

func newBuilder(ctx context.Context, r *meta.Registry) *builder {
	return &builder{ctx: ctx, registry: r, byURI: make(map[string]*meta.Package)}
}

func (b *builder) problem(rng hcl.Range, format string, args ...any) {
	b.diags = append(b.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid metamodel definition",
		Detail:   fmt.Sprintf(format, args...),
		Subject:  &rng,
	})
}

func (b *builder) err() error {
	if !b.diags.HasErrors() {
		return nil
	}
	return &LoadError{Diagnostics: b.diags}
}

// LoadError carries every problem found while translating the files, each
// with the range of the block it concerns.
type LoadError struct {
	Diagnostics hcl.Diagnostics
}

func (e *LoadError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		if d.Subject != nil {
			lines = append(lines, fmt.Sprintf("%s: %s", d.Subject, d.Detail))
		} else {
			lines = append(lines, d.Detail)
		}
	}
	return "metamodel validation failed:\n- " + strings.Join(lines, "\n- ")
}

// declare creates the file's package and its empty classifiers.
func (b *builder) declare(file string, root *fileRoot) error {
	if len(root.Packages) != 1 {
		return fmt.Errorf("%s: expected exactly one package block, found %d", file, len(root.Packages))
	}
	pb := root.Packages[0]
	pkg, ok := b.byURI[pb.NsURI]
	if !ok {
		pkg = meta.NewPackage(pb.Name, pb.NsURI, pb.NsPrefix)
		b.byURI[pb.NsURI] = pkg
		b.packages = append(b.packages, pkg)
	} else if pkg.Name != pb.Name {
		return fmt.Errorf("%s: namespace %q is declared as package %q and %q", file, pb.NsURI, pkg.Name, pb.Name)
	}
	logger := ctxlog.FromContext(b.ctx).With("file", file, "package", pkg.Name)
	logger.Debug("Declaring classifiers.", "enums", len(root.Enums), "datatypes", len(root.DataTypes), "classes", len(root.Classes))

	for _, eb := range root.Enums {
		if en := b.translateEnum(eb); en != nil {
			b.add(pkg, en, eb.DeclRange)
		}
	}
	for _, db := range root.DataTypes {
		if dt := b.translateDataType(db); dt != nil {
			b.add(pkg, dt, db.DeclRange)
		}
	}
	for _, cb := range root.Classes {
		var opts []meta.ClassOption
		if cb.Abstract {
			opts = append(opts, meta.Abstract())
		}
		if cb.Interface {
			opts = append(opts, meta.Interface())
		}
		cls := meta.NewClass(cb.Name, opts...)
		if b.add(pkg, cls, cb.DeclRange) {
			b.classes = append(b.classes, pendingClass{block: cb, cls: cls, pkg: pkg})
		}
	}
	return nil
}

func (b *builder) add(pkg *meta.Package, c meta.Classifier, rng hcl.Range) bool {
	if err := pkg.AddClassifier(c); err != nil {
		b.problem(rng, "%v", err)
		return false
	}
	return true
}

func (b *builder) translateEnum(eb *enumBlock) *meta.Enum {
	en := meta.NewEnum(eb.Name)
	for i, name := range eb.Literals {
		if _, err := en.AddLiteral(name, i); err != nil {
			b.problem(eb.DeclRange, "%v", err)
		}
	}
	if eb.Default != "" {
		l := en.Literal(eb.Default)
		if l == nil {
			b.problem(eb.DeclRange, "enum %q has no literal %q to use as default", eb.Name, eb.Default)
		} else if err := en.SetDefault(l); err != nil {
			b.problem(eb.DeclRange, "%v", err)
		}
	}
	return en
}

func (b *builder) translateDataType(db *dataTypeBlock) *meta.DataType {
	ty, err := typeExprToCtyType(b.ctx, db.Type)
	if err != nil {
		b.problem(db.DeclRange, "datatype %q: %v", db.Name, err)
		return nil
	}
	goType := goTypeFor(ty)
	var def any
	if goType != nil {
		switch goType.Kind() {
		case reflect.String, reflect.Float64, reflect.Bool:
			def = reflect.Zero(goType).Interface()
		}
	}
	if isExprDefined(b.ctx, db.Default, "default") {
		val, diags := db.Default.Value(nil)
		if diags.HasErrors() {
			b.problem(db.DeclRange, "datatype %q: invalid default: %v", db.Name, diags)
			return nil
		}
		def, err = meta.NewDataType(db.Name, ty, goType, nil).FromCty(val)
		if err != nil {
			b.problem(db.DeclRange, "datatype %q: invalid default: %v", db.Name, err)
			return nil
		}
	}
	return meta.NewDataType(db.Name, ty, goType, def)
}

// define fills in supertypes, features and operations once every classifier
// has a name.
func (b *builder) define() {
	for _, pc := range b.classes {
		cb := pc.block
		for _, name := range cb.Supertypes {
			super, err := b.resolveClass(pc.pkg, name)
			if err != nil {
				b.problem(cb.DeclRange, "class %q: supertype: %v", cb.Name, err)
				continue
			}
			if err := pc.cls.AddSuperclass(super); err != nil {
				b.problem(cb.DeclRange, "class %q: %v", cb.Name, err)
			}
		}
		for _, ab := range cb.Attributes {
			typ, err := b.resolve(pc.pkg, ab.Type)
			if err != nil {
				b.problem(ab.DeclRange, "attribute %s.%s: %v", cb.Name, ab.Name, err)
				continue
			}
			f := meta.NewAttribute(ab.Name, typ)
			f.ID = ab.ID
			applyFlags(f, ab.flags())
			if err := pc.cls.AddFeature(f); err != nil {
				b.problem(ab.DeclRange, "%v", err)
				continue
			}
			b.attributes = append(b.attributes, pendingAttribute{block: ab, f: f})
		}
		for _, rb := range cb.References {
			typ, err := b.resolveClass(pc.pkg, rb.Type)
			if err != nil {
				b.problem(rb.DeclRange, "reference %s.%s: %v", cb.Name, rb.Name, err)
				continue
			}
			f := meta.NewReference(rb.Name, typ)
			f.Containment = rb.Containment
			applyFlags(f, rb.flags())
			if err := pc.cls.AddFeature(f); err != nil {
				b.problem(rb.DeclRange, "%v", err)
				continue
			}
			b.references = append(b.references, pendingReference{block: rb, f: f})
		}
		for _, ob := range cb.Operations {
			if op := b.translateOperation(pc.pkg, cb.Name, ob); op != nil {
				if err := pc.cls.AddOperation(op); err != nil {
					b.problem(ob.DeclRange, "%v", err)
				}
			}
		}
	}
}

func applyFlags(f *meta.Feature, fl featureFlags) {
	f.Lower = fl.Lower
	if fl.Upper != nil {
		f.Upper = *fl.Upper
	}
	if fl.Ordered != nil {
		f.Ordered = *fl.Ordered
	}
	if fl.Unique != nil {
		f.Unique = *fl.Unique
	}
	if fl.Changeable != nil {
		f.Changeable = *fl.Changeable
	}
	f.Derived = fl.Derived
}

func (b *builder) translateOperation(pkg *meta.Package, owner string, ob *operationBlock) *meta.Operation {
	ok := true
	var ret meta.Classifier
	if ob.Type != "" {
		t, err := b.resolve(pkg, ob.Type)
		if err != nil {
			b.problem(ob.DeclRange, "operation %s.%s: return type: %v", owner, ob.Name, err)
			ok = false
		}
		ret = t
	}
	params := make([]*meta.Parameter, 0, len(ob.Parameters))
	for _, pb := range ob.Parameters {
		t, err := b.resolve(pkg, pb.Type)
		if err != nil {
			b.problem(ob.DeclRange, "operation %s.%s: parameter %q: %v", owner, ob.Name, pb.Name, err)
			ok = false
			continue
		}
		p := meta.NewParameter(pb.Name, t)
		if pb.Required != nil {
			p.Required = *pb.Required
		}
		params = append(params, p)
	}
	op := meta.NewOperation(ob.Name, ret, params...)
	for _, name := range ob.Exceptions {
		t, err := b.resolve(pkg, name)
		if err != nil {
			b.problem(ob.DeclRange, "operation %s.%s: exception: %v", owner, ob.Name, err)
			ok = false
			continue
		}
		op.Exceptions = append(op.Exceptions, t)
	}
	if !ok {
		return nil
	}
	return op
}

// link pairs opposites and converts attribute defaults, both of which need
// every feature in place.
func (b *builder) link() {
	for _, pr := range b.references {
		rb, f := pr.block, pr.f
		if rb.Opposite == "" {
			continue
		}
		target := f.ReferenceType()
		other, err := target.FindFeature(rb.Opposite)
		if err != nil {
			b.problem(rb.DeclRange, "reference %s: opposite: %v", f.QualifiedName(), err)
			continue
		}
		if cur := other.Opposite(); cur != nil && cur != f {
			b.problem(rb.DeclRange, "reference %s: opposite %s is already paired with %s", f.QualifiedName(), other.QualifiedName(), cur.QualifiedName())
			continue
		}
		if cur := f.Opposite(); cur != nil && cur != other {
			b.problem(rb.DeclRange, "reference %s: already paired with %s", f.QualifiedName(), cur.QualifiedName())
			continue
		}
		if err := meta.SetOpposite(f, other); err != nil {
			b.problem(rb.DeclRange, "%v", err)
		}
	}

	for _, pa := range b.attributes {
		ab, f := pa.block, pa.f
		if !isExprDefined(b.ctx, ab.Default, "default") {
			continue
		}
		dc, ok := f.Type.(meta.DataClassifier)
		if !ok {
			b.problem(ab.DeclRange, "attribute %s: type %s has no literal form", f.QualifiedName(), f.Type.Name())
			continue
		}
		val, diags := ab.Default.Value(nil)
		if diags.HasErrors() {
			b.problem(ab.DeclRange, "attribute %s: invalid default: %v", f.QualifiedName(), diags)
			continue
		}
		v, err := dc.FromCty(val)
		if err != nil {
			b.problem(ab.DeclRange, "attribute %s: invalid default: %v", f.QualifiedName(), err)
			continue
		}
		f.Default = v
	}
}

// resolve looks name up in pkg, then among the built-in classifiers. A
// qualified "nsURI#Name" is looked up among the loaded packages and the
// registry.
func (b *builder) resolve(pkg *meta.Package, name string) (meta.Classifier, error) {
	if uri, local, ok := strings.Cut(name, "#"); ok {
		if p, ok := b.byURI[uri]; ok {
			if c, ok := p.Classifier(local); ok {
				return c, nil
			}
			return nil, fmt.Errorf("%w: package %q has no classifier %q", mgerr.ErrUnknownClassifier, p.Name, local)
		}
		if uri == meta.MetaNamespace {
			if c, ok := meta.MetaModel.Classifier(local); ok {
				return c, nil
			}
		}
		if b.registry != nil {
			return b.registry.Lookup(name)
		}
		return nil, fmt.Errorf("%w: no package loaded for %q", mgerr.ErrUnknownClassifier, uri)
	}
	if c, ok := pkg.Classifier(name); ok {
		return c, nil
	}
	if c, ok := meta.MetaModel.Classifier(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", mgerr.ErrUnknownClassifier, name)
}

func (b *builder) resolveClass(pkg *meta.Package, name string) (*meta.Class, error) {
	c, err := b.resolve(pkg, name)
	if err != nil {
		return nil, err
	}
	cls, ok := c.(*meta.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a class", mgerr.ErrType, c.Name())
	}
	return cls, nil
}
