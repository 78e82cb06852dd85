// Package hcldef loads metamodels written in HCL into meta.Package values.
//
// # Why hcldef Exists
//
// Metamodels built in Go with the meta constructors are fine for code that
// ships with its own types. Tools that operate on user-defined models need
// the same descriptors from files. This package is that bridge: it reads a
// small block language, builds the descriptors, resolves the names between
// them and validates the result before anyone can instantiate it.
//
// # The Block Language
//
//	package "library" {
//	  ns_uri    = "http://example.org/library"
//	  ns_prefix = "lib"
//	}
//
//	enum "Genre" {
//	  literals = ["Fiction", "Poetry"]
//	  default  = "Poetry"
//	}
//
//	datatype "Tags" {
//	  type    = list(string)
//	  default = []
//	}
//
//	class "Book" {
//	  abstract   = false
//	  supertypes = ["Item"]
//
//	  attribute "title" {
//	    type  = "String"
//	    id    = true
//	    lower = 1
//	  }
//	  reference "authors" {
//	    type     = "Writer"
//	    upper    = -1
//	    opposite = "books"
//	  }
//	  operation "describe" {
//	    type       = "String"
//	    exceptions = ["String"]
//	    parameter "prefix" {
//	      type = "String"
//	    }
//	  }
//	}
//
// Every file holds exactly one package block; the classifiers of the file
// belong to it. Files naming the same ns_uri contribute to the same package.
//
// Type names are looked up in the file's package first and then among the
// built-in data types (String, Int, Bool, ...). A name of the form
// "nsURI#Name" addresses a classifier of another loaded package or of a
// package in the registry given with WithRegistry.
//
// An upper bound of -1 means unbounded. An opposite names the feature on the
// reference's target class; declaring it on one side is enough, and both
// sides may declare it as long as they agree.
//
// # Loading Phases
//
// Loading runs in three passes so that declarations can refer to each other
// in any order and across files:
//
//  1. Parse every file and create its package and empty classifiers.
//  2. Fill in supertypes, features and operations.
//  3. Pair opposites, convert defaults and validate each package.
//
// Problems found in passes 2 and 3 are collected and reported together.
package hcldef
