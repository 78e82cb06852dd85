// internal/fragment/doc.go

/*
Package fragment provides a structured representation of object paths inside
a containment tree, based on the canonical fragment format.

A fragment is a slash-separated sequence of segments starting at the root
object, e.g. `/@chapters.2/@sections.0/intro`. A segment is either
`@feature` (single-valued containment), `@feature.index` (position in a
many-valued containment) or a bare identifier matched against the ID
attribute of the contained objects. The root itself is `/`.

The legacy double-slash prefix (`//@chapters.2`) is accepted by Parse and
never produced by String.
*/
package fragment
