package meta

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DataClassifier is a classifier whose values have a textual form.
type DataClassifier interface {
	Classifier
	FromString(s string) (any, error)
	ToString(v any) (string, error)
	// FromCty converts a cty value (for example an HCL literal) into a
	// conforming Go value.
	FromCty(v cty.Value) (any, error)
}

// DataType is a primitive value type. Values are plain Go values of GoType;
// CtyType drives conversion from and to text and HCL literals.
type DataType struct {
	name   string
	pkg    *Package
	ty     cty.Type
	goType reflect.Type
	def    any

	parse  func(string) (any, error)
	format func(any) (string, error)
}

// DataTypeOption configures a data type.
type DataTypeOption func(*DataType)

// WithParser overrides string parsing, for types go-cty has no native
// representation of.
func WithParser(parse func(string) (any, error), format func(any) (string, error)) DataTypeOption {
	return func(d *DataType) { d.parse, d.format = parse, format }
}

// NewDataType declares a data type. goType nil accepts any value.
func NewDataType(name string, ty cty.Type, goType reflect.Type, def any, opts ...DataTypeOption) *DataType {
	d := &DataType{name: name, ty: ty, goType: goType, def: def}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DataType) Name() string          { return d.name }
func (d *DataType) Package() *Package     { return d.pkg }
func (d *DataType) setPackage(p *Package) { d.pkg = p }
func (d *DataType) MetaClass() *Class     { return MetaDataType }
func (d *DataType) DefaultValue() any     { return d.def }
func (d *DataType) CtyType() cty.Type     { return d.ty }
func (d *DataType) GoType() reflect.Type  { return d.goType }
func (d *DataType) String() string        { return d.name }

// Conforms reports whether value is of the data type's Go type. nil only
// conforms to types whose Go representation is nilable.
func (d *DataType) Conforms(value any) bool {
	if d.goType == nil {
		return true
	}
	if value == nil {
		switch d.goType.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return true
		}
		return false
	}
	return reflect.TypeOf(value).AssignableTo(d.goType)
}

// FromString parses s into a conforming value.
func (d *DataType) FromString(s string) (any, error) {
	return d.FromCty(cty.StringVal(s))
}

// FromCty converts v to the data type's cty type and decodes it into the Go
// type.
func (d *DataType) FromCty(v cty.Value) (any, error) {
	if d.parse != nil {
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		if s.IsNull() || !s.IsKnown() {
			return nil, fmt.Errorf("%s: value is not known", d.name)
		}
		return d.parse(s.AsString())
	}
	if d.goType == nil {
		return ctyToNative(v)
	}
	converted, err := convert.Convert(v, d.ty)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	target := reflect.New(d.goType)
	if err := gocty.FromCtyValue(converted, target.Interface()); err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return target.Elem().Interface(), nil
}

// ToString renders a conforming value.
func (d *DataType) ToString(v any) (string, error) {
	if !d.Conforms(v) {
		return "", fmt.Errorf("%s: cannot format %T", d.name, v)
	}
	if d.format != nil {
		return d.format(v)
	}
	ty := d.ty
	if ty == cty.DynamicPseudoType {
		implied, err := gocty.ImpliedType(v)
		if err != nil {
			return fmt.Sprint(v), nil
		}
		ty = implied
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.name, err)
	}
	if val.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.name, err)
	}
	return str.AsString(), nil
}

// ctyToNative decodes a value of unknown type into the closest plain Go
// value.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		if bf := v.AsBigFloat(); bf.IsInt() {
			i, _ := bf.Int64()
			return i, nil
		}
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = nv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func parseDate(s string) (any, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func formatDate(v any) (string, error) {
	return v.(time.Time).Format(time.RFC3339), nil
}

func parseBytes(s string) (any, error) { return []byte(s), nil }

func formatBytes(v any) (string, error) {
	b, _ := v.([]byte)
	return string(b), nil
}

// Built-in data types, registered in MetaPackage.
var (
	String    = NewDataType("String", cty.String, reflect.TypeOf(""), "")
	Bool      = NewDataType("Bool", cty.Bool, reflect.TypeOf(false), false)
	Int       = NewDataType("Int", cty.Number, reflect.TypeOf(0), 0)
	Long      = NewDataType("Long", cty.Number, reflect.TypeOf(int64(0)), int64(0))
	Float     = NewDataType("Float", cty.Number, reflect.TypeOf(float32(0)), float32(0))
	Double    = NewDataType("Double", cty.Number, reflect.TypeOf(float64(0)), float64(0))
	Bytes     = NewDataType("Bytes", cty.String, reflect.TypeOf([]byte(nil)), nil, WithParser(parseBytes, formatBytes))
	Date      = NewDataType("Date", cty.String, reflect.TypeOf(time.Time{}), time.Time{}, WithParser(parseDate, formatDate))
	StringMap = NewDataType("StringMap", cty.Map(cty.String), reflect.TypeOf(map[string]string(nil)), nil)
	Any       = NewDataType("Any", cty.DynamicPseudoType, nil, nil)
)
