package meta

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// EnumLiteral is one member of an enumeration. Attribute slots typed by an
// enum hold *EnumLiteral values.
type EnumLiteral struct {
	Name  string
	Value int
	enum  *Enum
}

func (l *EnumLiteral) MetaClass() *Class { return MetaEnumLiteral }

// Enum returns the enumeration declaring l.
func (l *EnumLiteral) Enum() *Enum { return l.enum }

func (l *EnumLiteral) String() string { return l.Name }

// Enum is a closed set of named literals.
type Enum struct {
	name     string
	pkg      *Package
	literals []*EnumLiteral
	def      *EnumLiteral
}

// NewEnum declares an enumeration whose literals take the values 0..n-1.
func NewEnum(name string, literals ...string) *Enum {
	e := &Enum{name: name}
	for i, l := range literals {
		if _, err := e.AddLiteral(l, i); err != nil {
			panic(err)
		}
	}
	return e
}

func (e *Enum) Name() string          { return e.name }
func (e *Enum) Package() *Package     { return e.pkg }
func (e *Enum) setPackage(p *Package) { e.pkg = p }
func (e *Enum) MetaClass() *Class     { return MetaEnum }
func (e *Enum) String() string        { return e.name }

// AddLiteral appends a literal. Names and values must both be unique.
func (e *Enum) AddLiteral(name string, value int) (*EnumLiteral, error) {
	for _, l := range e.literals {
		if l.Name == name {
			return nil, fmt.Errorf("enum %q already has literal %q", e.name, name)
		}
		if l.Value == value {
			return nil, fmt.Errorf("enum %q already has a literal with value %d (%s)", e.name, value, l.Name)
		}
	}
	l := &EnumLiteral{Name: name, Value: value, enum: e}
	e.literals = append(e.literals, l)
	return l, nil
}

// Literals returns the literals in declaration order.
func (e *Enum) Literals() []*EnumLiteral {
	return append([]*EnumLiteral(nil), e.literals...)
}

// Literal looks a literal up by name.
func (e *Enum) Literal(name string) *EnumLiteral {
	for _, l := range e.literals {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LiteralByValue looks a literal up by value.
func (e *Enum) LiteralByValue(v int) *EnumLiteral {
	for _, l := range e.literals {
		if l.Value == v {
			return l
		}
	}
	return nil
}

// SetDefault chooses the default literal. It must belong to e.
func (e *Enum) SetDefault(l *EnumLiteral) error {
	if l == nil || l.enum != e {
		return fmt.Errorf("enum %q: %v is not one of its literals", e.name, l)
	}
	e.def = l
	return nil
}

// DefaultValue is the explicit default or else the first literal.
func (e *Enum) DefaultValue() any {
	if e.def != nil {
		return e.def
	}
	if len(e.literals) > 0 {
		return e.literals[0]
	}
	return nil
}

// Conforms accepts only literals of this enum.
func (e *Enum) Conforms(value any) bool {
	l, ok := value.(*EnumLiteral)
	return ok && l != nil && l.enum == e
}

func (e *Enum) FromString(s string) (any, error) {
	if l := e.Literal(s); l != nil {
		return l, nil
	}
	return nil, fmt.Errorf("enum %q has no literal %q", e.name, s)
}

func (e *Enum) ToString(v any) (string, error) {
	if !e.Conforms(v) {
		return "", fmt.Errorf("enum %q: %v is not one of its literals", e.name, v)
	}
	return v.(*EnumLiteral).Name, nil
}

// FromCty accepts a literal name (string) or a literal value (number).
func (e *Enum) FromCty(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("enum %q: value is not known", e.name)
	}
	if v.Type() == cty.Number {
		n, _ := v.AsBigFloat().Int64()
		if l := e.LiteralByValue(int(n)); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("enum %q has no literal with value %d", e.name, n)
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return nil, fmt.Errorf("enum %q: %w", e.name, err)
	}
	return e.FromString(s.AsString())
}
