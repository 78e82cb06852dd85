package meta

import (
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Reflect reads the property of descriptor d named by one of the features of
// d's meta-class, for example Reflect(cls, "abstract") or
// Reflect(feature, "opposite"). Many-valued properties are returned as []any.
func Reflect(d Descriptor, name string) (any, error) {
	mc := d.MetaClass()
	f, err := mc.FindFeature(name)
	if err != nil {
		return nil, err
	}
	v, ok := reflectValue(d, f.Name)
	if !ok {
		return nil, &mgerr.UnknownFeatureError{Class: mc.Name(), Feature: name}
	}
	return v, nil
}

func reflectValue(d Descriptor, name string) (any, bool) {
	switch x := d.(type) {
	case *Package:
		return reflectPackage(x, name)
	case *Class:
		return reflectClass(x, name)
	case *Enum:
		return reflectEnum(x, name)
	case *DataType:
		return reflectDataType(x, name)
	case *EnumLiteral:
		return reflectLiteral(x, name)
	case *Feature:
		return reflectFeature(x, name)
	case *Operation:
		return reflectOperation(x, name)
	case *Parameter:
		return reflectParameter(x, name)
	}
	return nil, false
}

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// nilable keeps typed nil pointers from turning into non-nil interfaces.
func nilable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

func reflectPackage(p *Package, name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "nsURI":
		return p.NsURI, true
	case "nsPrefix":
		return p.NsPrefix, true
	case "classifiers":
		return anySlice(p.classifiers), true
	case "subpackages":
		return anySlice(p.subpackages), true
	case "superPackage":
		return nilable(p.super), true
	}
	return nil, false
}

func reflectClassifier(c Classifier, name string) (any, bool) {
	switch name {
	case "name":
		return c.Name(), true
	case "package":
		return nilable(c.Package()), true
	case "defaultValue":
		return c.DefaultValue(), true
	}
	return nil, false
}

func reflectClass(c *Class, name string) (any, bool) {
	switch name {
	case "abstract":
		return c.abstract, true
	case "interface":
		return c.iface, true
	case "supertypes":
		return anySlice(c.supers), true
	case "features":
		return anySlice(c.features), true
	case "operations":
		return anySlice(c.ops), true
	case "allSupertypes":
		return anySlice(c.AllSupertypes()), true
	case "allFeatures":
		return anySlice(c.AllFeatures()), true
	case "allOperations":
		return anySlice(c.AllOperations()), true
	}
	return reflectClassifier(c, name)
}

func reflectDataType(d *DataType, name string) (any, bool) {
	if name == "instanceTypeName" {
		if d.goType == nil {
			return "", true
		}
		return d.goType.String(), true
	}
	return reflectClassifier(d, name)
}

func reflectEnum(e *Enum, name string) (any, bool) {
	switch name {
	case "literals":
		return anySlice(e.literals), true
	case "instanceTypeName":
		return "*meta.EnumLiteral", true
	}
	return reflectClassifier(e, name)
}

func reflectLiteral(l *EnumLiteral, name string) (any, bool) {
	switch name {
	case "name":
		return l.Name, true
	case "value":
		return l.Value, true
	case "enum":
		return nilable(l.enum), true
	}
	return nil, false
}

func reflectFeature(f *Feature, name string) (any, bool) {
	switch name {
	case "name":
		return f.Name, true
	case "type":
		return f.Type, true
	case "lowerBound":
		return f.Lower, true
	case "upperBound":
		return f.Upper, true
	case "ordered":
		return f.Ordered, true
	case "unique":
		return f.Unique, true
	case "many":
		return f.IsMany(), true
	case "required":
		return f.Lower > 0, true
	case "changeable":
		return f.Changeable, true
	case "derived":
		return f.Derived, true
	case "defaultValue":
		return f.DefaultValue(), true
	case "containingClass":
		return nilable(f.owner), true
	case "id":
		return f.ID, true
	case "containment":
		return f.Containment, true
	case "container":
		return f.IsContainer(), true
	case "opposite":
		return nilable(f.opposite), true
	}
	return nil, false
}

func reflectOperation(o *Operation, name string) (any, bool) {
	switch name {
	case "name":
		return o.Name, true
	case "type":
		return o.Type, true
	case "lowerBound":
		return 0, true
	case "upperBound":
		return 1, true
	case "ordered", "unique":
		return true, true
	case "many":
		return false, true
	case "required":
		return o.Type != nil, true
	case "parameters":
		return anySlice(o.Params), true
	case "exceptions":
		return anySlice(o.Exceptions), true
	case "containingClass":
		return nilable(o.owner), true
	}
	return nil, false
}

func reflectParameter(p *Parameter, name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "type":
		return p.Type, true
	case "lowerBound":
		if p.Required {
			return 1, true
		}
		return 0, true
	case "upperBound":
		return 1, true
	case "ordered", "unique":
		return true, true
	case "many":
		return false, true
	case "required":
		return p.Required, true
	case "operation":
		return nilable(p.op), true
	}
	return nil, false
}
