package hcldef

import "github.com/hashicorp/hcl/v2"

// --- File Structure ---

// fileRoot decodes every top-level block a metamodel file may hold.
type fileRoot struct {
	Packages  []*packageBlock  `hcl:"package,block"`
	Enums     []*enumBlock     `hcl:"enum,block"`
	DataTypes []*dataTypeBlock `hcl:"datatype,block"`
	Classes   []*classBlock    `hcl:"class,block"`
}

// packageBlock names the package the file's classifiers belong to.
type packageBlock struct {
	Name     string `hcl:"name,label"`
	NsURI    string `hcl:"ns_uri"`
	NsPrefix string `hcl:"ns_prefix,optional"`
}

// --- Classifiers ---

type enumBlock struct {
	Name      string    `hcl:"name,label"`
	Literals  []string  `hcl:"literals"`
	Default   string    `hcl:"default,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

// dataTypeBlock declares a data type backed by a cty type expression such as
// `string` or `list(number)`.
type dataTypeBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type"`
	Default   hcl.Expression `hcl:"default,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type classBlock struct {
	Name       string            `hcl:"name,label"`
	Abstract   bool              `hcl:"abstract,optional"`
	Interface  bool              `hcl:"interface,optional"`
	Supertypes []string          `hcl:"supertypes,optional"`
	Attributes []*attributeBlock `hcl:"attribute,block"`
	References []*referenceBlock `hcl:"reference,block"`
	Operations []*operationBlock `hcl:"operation,block"`
	DeclRange  hcl.Range         `hcl:",def_range"`
}

// --- Features ---

// featureFlags are the settings attributes and references share. A nil
// pointer keeps the meta default.
type featureFlags struct {
	Lower      int
	Upper      *int
	Ordered    *bool
	Unique     *bool
	Changeable *bool
	Derived    bool
}

type attributeBlock struct {
	Name       string         `hcl:"name,label"`
	Type       string         `hcl:"type"`
	ID         bool           `hcl:"id,optional"`
	Default    hcl.Expression `hcl:"default,optional"`
	Lower      int            `hcl:"lower,optional"`
	Upper      *int           `hcl:"upper,optional"`
	Ordered    *bool          `hcl:"ordered,optional"`
	Unique     *bool          `hcl:"unique,optional"`
	Changeable *bool          `hcl:"changeable,optional"`
	Derived    bool           `hcl:"derived,optional"`
	DeclRange  hcl.Range      `hcl:",def_range"`
}

type referenceBlock struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type"`
	Containment bool      `hcl:"containment,optional"`
	Opposite    string    `hcl:"opposite,optional"`
	Lower       int       `hcl:"lower,optional"`
	Upper       *int      `hcl:"upper,optional"`
	Ordered     *bool     `hcl:"ordered,optional"`
	Unique      *bool     `hcl:"unique,optional"`
	Changeable  *bool     `hcl:"changeable,optional"`
	Derived     bool      `hcl:"derived,optional"`
	DeclRange   hcl.Range `hcl:",def_range"`
}

func (a *attributeBlock) flags() featureFlags {
	return featureFlags{a.Lower, a.Upper, a.Ordered, a.Unique, a.Changeable, a.Derived}
}

func (r *referenceBlock) flags() featureFlags {
	return featureFlags{r.Lower, r.Upper, r.Ordered, r.Unique, r.Changeable, r.Derived}
}

// --- Operations ---

type operationBlock struct {
	Name       string            `hcl:"name,label"`
	Type       string            `hcl:"type,optional"`
	Exceptions []string          `hcl:"exceptions,optional"`
	Parameters []*parameterBlock `hcl:"parameter,block"`
	DeclRange  hcl.Range         `hcl:",def_range"`
}

type parameterBlock struct {
	Name     string `hcl:"name,label"`
	Type     string `hcl:"type"`
	Required *bool  `hcl:"required,optional"`
}
