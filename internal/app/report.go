package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/metagraph/internal/meta"
)

// writeReport prints one block per package listing its classifiers and
// their features.
func writeReport(w io.Writer, pkgs []*meta.Package) error {
	var b strings.Builder
	for i, p := range pkgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "package %s (%s)\n", p.Name, p.NsURI)
		for _, c := range p.Classifiers() {
			switch c := c.(type) {
			case *meta.Enum:
				names := make([]string, 0, len(c.Literals()))
				for _, l := range c.Literals() {
					names = append(names, l.Name)
				}
				fmt.Fprintf(&b, "  enum %s {%s}\n", c.Name(), strings.Join(names, ", "))
			case *meta.DataType:
				fmt.Fprintf(&b, "  datatype %s %s\n", c.Name(), c.CtyType().FriendlyName())
			case *meta.Class:
				writeClass(&b, c)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeClass(b *strings.Builder, c *meta.Class) {
	b.WriteString("  ")
	if c.IsAbstract() {
		b.WriteString("abstract ")
	}
	b.WriteString("class ")
	b.WriteString(c.Name())
	if supers := c.Supertypes(); len(supers) > 0 {
		names := make([]string, len(supers))
		for i, s := range supers {
			names[i] = s.Name()
		}
		fmt.Fprintf(b, " : %s", strings.Join(names, ", "))
	}
	b.WriteByte('\n')

	for _, f := range c.Features() {
		kind := "attribute"
		if f.IsReference() {
			kind = "reference"
		}
		fmt.Fprintf(b, "    %s %s %s %s", kind, f.Name, f.TypeName(), bounds(f))
		if f.ID {
			b.WriteString(" id")
		}
		if f.Containment {
			b.WriteString(" containment")
		}
		if f.Derived {
			b.WriteString(" derived")
		}
		if o := f.Opposite(); o != nil {
			fmt.Fprintf(b, " opposite %s", o.Name)
		}
		b.WriteByte('\n')
	}
	for _, op := range c.Operations() {
		fmt.Fprintf(b, "    operation %s\n", op.Signature())
	}
}

func bounds(f *meta.Feature) string {
	if f.Upper == meta.Unbounded {
		return fmt.Sprintf("[%d..*]", f.Lower)
	}
	return fmt.Sprintf("[%d..%d]", f.Lower, f.Upper)
}
