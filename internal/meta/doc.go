// Package meta implements the type-descriptor model: packages, classes, data
// types, enumerations, structural features and operations.
//
// # Why Meta Package Exists
//
// Descriptors are plain data. They carry no instances and no behaviour beyond
// validation and introspection, which keeps them usable both by the graph
// engine (runtime type checks on every write) and by external collaborators
// such as loaders or generators that only need to read a type system.
//
// # Inheritance Linearization
//
// Multiple inheritance is resolved by a fixed linearization: the class
// itself, followed by the linearization of each direct superclass in
// declaration order (depth-first, left-to-right), keeping only the first
// occurrence of a class. AllFeatures walks classes in that order and keeps
// the first feature seen for a given name, so a feature declared on a more
// derived class shadows one with the same name further up.
//
//	Named      Tagged
//	   \        /
//	    Document          linearization(Report) =
//	       |              [Report, Document, Named, Tagged]
//	    Report
//
// # Self Description
//
// The package bootstraps a small closed set of meta-descriptors (MetaClass,
// MetaAttribute, MetaReference, MetaOperation, ...) before any user
// descriptor exists. Every descriptor reports its meta-descriptor through
// MetaClass(), and MetaClass.MetaClass() is MetaClass itself. Reflect reads a
// descriptor property by the name of the corresponding meta-feature. Only this
// one level of reflexivity is supported.
//
// # Data Types
//
// DataType pairs a cty.Type with a Go reflect.Type. Conformance is checked on
// the Go side; string and HCL literal conversion go through go-cty's convert
// and gocty packages.
package meta
