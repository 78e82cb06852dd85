package meta

import "strings"

// Parameter is a typed operation argument.
type Parameter struct {
	Name     string
	Type     Classifier
	Required bool

	op *Operation
}

func (p *Parameter) MetaClass() *Class { return MetaParameter }

// NewParameter declares a required parameter.
func NewParameter(name string, typ Classifier) *Parameter {
	return &Parameter{Name: name, Type: typ, Required: true}
}

// Operation declares behaviour on a class. Its Go body is attached with
// Class.Implement.
type Operation struct {
	Name       string
	Type       Classifier
	Params     []*Parameter
	Exceptions []Classifier

	owner *Class
}

// NewOperation declares an operation; ret is nil for operations returning
// nothing.
func NewOperation(name string, ret Classifier, params ...*Parameter) *Operation {
	o := &Operation{Name: name, Type: ret, Params: params}
	for _, p := range params {
		p.op = o
	}
	return o
}

// Operation returns the operation declaring p.
func (p *Parameter) Operation() *Operation { return p.op }

func (o *Operation) MetaClass() *Class { return MetaOperation }

// Owner returns the declaring class.
func (o *Operation) Owner() *Class { return o.owner }

// Signature renders "name(p1 T1, p2 T2) R".
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteByte('(')
	for i, p := range o.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != nil {
			b.WriteByte(' ')
			b.WriteString(p.Type.Name())
		}
	}
	b.WriteByte(')')
	if o.Type != nil {
		b.WriteByte(' ')
		b.WriteString(o.Type.Name())
	}
	return b.String()
}

// RequiredParams counts the parameters a call must supply.
func (o *Operation) RequiredParams() int {
	n := 0
	for _, p := range o.Params {
		if p.Required {
			n++
		}
	}
	return n
}
