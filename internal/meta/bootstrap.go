package meta

// MetaNamespace is the namespace URI of the bootstrap package.
const MetaNamespace = "urn:metagraph:meta"

// Bootstrap meta-descriptors. They are built here as ordinary values before
// any user descriptor exists; init wires their features.
var (
	MetaNamed        = NewClass("Named", Abstract())
	MetaClassifier   = NewClass("Classifier", Abstract())
	MetaPackage      = NewClass("Package")
	MetaClass        = NewClass("Class")
	MetaDataType     = NewClass("DataType")
	MetaEnum         = NewClass("Enum")
	MetaEnumLiteral  = NewClass("EnumLiteral")
	MetaTypedElement = NewClass("TypedElement", Abstract())
	MetaFeature      = NewClass("Feature", Abstract())
	MetaAttribute    = NewClass("Attribute")
	MetaReference    = NewClass("Reference")
	MetaOperation    = NewClass("Operation")
	MetaParameter    = NewClass("Parameter")

	// MetaModel holds the meta-descriptors and the built-in data types.
	MetaModel = NewPackage("meta", MetaNamespace, "meta")
)

func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	super := func(c *Class, supers ...*Class) {
		for _, s := range supers {
			must(c.AddSuperclass(s))
		}
	}

	super(MetaClassifier, MetaNamed)
	super(MetaPackage, MetaNamed)
	super(MetaClass, MetaClassifier)
	super(MetaDataType, MetaClassifier)
	super(MetaEnum, MetaDataType)
	super(MetaEnumLiteral, MetaNamed)
	super(MetaTypedElement, MetaNamed)
	super(MetaFeature, MetaTypedElement)
	super(MetaAttribute, MetaFeature)
	super(MetaReference, MetaFeature)
	super(MetaOperation, MetaTypedElement)
	super(MetaParameter, MetaTypedElement)

	MetaNamed.MustAddFeatures(NewAttribute("name", String))

	pkgClassifiers := NewReference("classifiers", MetaClassifier, Many(), Contained())
	pkgSubpackages := NewReference("subpackages", MetaPackage, Many(), Contained())
	pkgSuper := NewReference("superPackage", MetaPackage)
	MetaPackage.MustAddFeatures(
		NewAttribute("nsURI", String),
		NewAttribute("nsPrefix", String),
		pkgClassifiers,
		pkgSubpackages,
		pkgSuper,
	)
	classifierPkg := NewReference("package", MetaPackage)
	MetaClassifier.MustAddFeatures(
		classifierPkg,
		NewAttribute("defaultValue", Any, Computed(), ReadOnly()),
	)

	classFeatures := NewReference("features", MetaFeature, Many(), Contained())
	classOps := NewReference("operations", MetaOperation, Many(), Contained())
	MetaClass.MustAddFeatures(
		NewAttribute("abstract", Bool),
		NewAttribute("interface", Bool),
		NewReference("supertypes", MetaClass, Many()),
		classFeatures,
		classOps,
		NewReference("allSupertypes", MetaClass, Many(), Computed(), ReadOnly()),
		NewReference("allFeatures", MetaFeature, Many(), Computed(), ReadOnly()),
		NewReference("allOperations", MetaOperation, Many(), Computed(), ReadOnly()),
	)

	MetaDataType.MustAddFeatures(NewAttribute("instanceTypeName", String, Computed(), ReadOnly()))

	enumLiterals := NewReference("literals", MetaEnumLiteral, Many(), Contained())
	literalEnum := NewReference("enum", MetaEnum)
	MetaEnum.MustAddFeatures(enumLiterals)
	MetaEnumLiteral.MustAddFeatures(NewAttribute("value", Int), literalEnum)

	MetaTypedElement.MustAddFeatures(
		NewReference("type", MetaClassifier),
		NewAttribute("lowerBound", Int),
		NewAttribute("upperBound", Int, Default(1)),
		NewAttribute("ordered", Bool, Default(true)),
		NewAttribute("unique", Bool, Default(true)),
		NewAttribute("many", Bool, Computed(), ReadOnly()),
		NewAttribute("required", Bool, Computed(), ReadOnly()),
	)

	featureClass := NewReference("containingClass", MetaClass)
	MetaFeature.MustAddFeatures(
		NewAttribute("changeable", Bool, Default(true)),
		NewAttribute("derived", Bool),
		NewAttribute("defaultValue", Any),
		featureClass,
	)
	MetaAttribute.MustAddFeatures(NewAttribute("id", Bool))

	refOpposite := NewReference("opposite", MetaReference)
	MetaReference.MustAddFeatures(
		NewAttribute("containment", Bool),
		NewAttribute("container", Bool, Computed(), ReadOnly()),
		refOpposite,
	)

	opParams := NewReference("parameters", MetaParameter, Many(), Contained())
	opClass := NewReference("containingClass", MetaClass)
	MetaOperation.MustAddFeatures(
		opParams,
		NewReference("exceptions", MetaClassifier, Many()),
		opClass,
	)
	paramOp := NewReference("operation", MetaOperation)
	MetaParameter.MustAddFeatures(paramOp)

	must(SetOpposite(pkgClassifiers, classifierPkg))
	must(SetOpposite(pkgSubpackages, pkgSuper))
	must(SetOpposite(classFeatures, featureClass))
	must(SetOpposite(classOps, opClass))
	must(SetOpposite(enumLiterals, literalEnum))
	must(SetOpposite(opParams, paramOp))
	must(SetOpposite(refOpposite, refOpposite))

	MetaModel.MustAdd(
		String, Bool, Int, Long, Float, Double, Bytes, Date, StringMap, Any,
		MetaNamed, MetaClassifier, MetaPackage, MetaClass, MetaDataType, MetaEnum,
		MetaEnumLiteral, MetaTypedElement, MetaFeature, MetaAttribute, MetaReference,
		MetaOperation, MetaParameter,
	)
	must(MetaModel.Validate())
}
