package testutil

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/metagraph/internal/meta"
)

// LibraryNS is the namespace URI of the fixture metamodel.
const LibraryNS = "http://example.org/library"

// Library is a small metamodel exercising every kind of feature:
//
//	Library  name:String(id)  books:Book[*] (containment, opposite Book.library)
//	         writers:Writer[*] (containment)
//	Book     title:String(id)  pages:Int  genre:Genre  tags:String[*]
//	         authors:Writer[*] (opposite Writer.books)  library:Library
//	         editor:Writer  summary (derived)  describe(prefix:String):String
//	Writer   name:String(id)  books:Book[*]  favourite:Book[0..1]
//	Node     name:String  children:Node[*] (containment, opposite parent)
//	         parent:Node  next:Node  peers:Node[0..2]
//	Item     abstract, the supertype of Book
type Library struct {
	Package *meta.Package
	Genre   *meta.Enum

	Item *meta.Class

	Library        *meta.Class
	LibraryName    *meta.Feature
	LibraryBooks   *meta.Feature
	LibraryWriters *meta.Feature

	Book        *meta.Class
	BookTitle   *meta.Feature
	BookPages   *meta.Feature
	BookGenre   *meta.Feature
	BookTags    *meta.Feature
	BookAuthors *meta.Feature
	BookLibrary *meta.Feature
	BookEditor  *meta.Feature
	BookSummary *meta.Feature
	Describe    *meta.Operation

	Writer          *meta.Class
	WriterName      *meta.Feature
	WriterBooks     *meta.Feature
	WriterFavourite *meta.Feature

	Node         *meta.Class
	NodeName     *meta.Feature
	NodeChildren *meta.Feature
	NodeParent   *meta.Feature
	NodeNext     *meta.Feature
	NodePeers    *meta.Feature
}

// NewLibrary builds a fresh copy of the fixture metamodel. Every call returns
// unrelated descriptors, so tests may extend them freely.
func NewLibrary() *Library {
	l := &Library{
		Package: meta.NewPackage("library", LibraryNS, "lib"),
		Genre:   meta.NewEnum("Genre", "Fiction", "Poetry", "Reference"),
		Item:    meta.NewClass("Item", meta.Abstract()),
		Library: meta.NewClass("Library"),
		Book:    meta.NewClass("Book"),
		Writer:  meta.NewClass("Writer"),
		Node:    meta.NewClass("Node"),
	}

	l.LibraryName = meta.NewAttribute("name", meta.String, meta.Identifier())
	l.LibraryBooks = meta.NewReference("books", l.Book, meta.Many(), meta.Contained())
	l.LibraryWriters = meta.NewReference("writers", l.Writer, meta.Many(), meta.Contained())
	l.Library.MustAddFeatures(l.LibraryName, l.LibraryBooks, l.LibraryWriters)

	l.BookTitle = meta.NewAttribute("title", meta.String, meta.Identifier(), meta.Required())
	l.BookPages = meta.NewAttribute("pages", meta.Int)
	l.BookGenre = meta.NewAttribute("genre", l.Genre)
	l.BookTags = meta.NewAttribute("tags", meta.String, meta.Many())
	l.BookAuthors = meta.NewReference("authors", l.Writer, meta.Many())
	l.BookLibrary = meta.NewReference("library", l.Library)
	l.BookEditor = meta.NewReference("editor", l.Writer)
	l.BookSummary = meta.NewAttribute("summary", meta.String, meta.DerivedBy(l.summary))
	l.Book.MustAddFeatures(l.BookTitle, l.BookPages, l.BookGenre, l.BookTags,
		l.BookAuthors, l.BookLibrary, l.BookEditor, l.BookSummary)
	must(l.Book.AddSuperclass(l.Item))

	l.Describe = meta.NewOperation("describe", meta.String, meta.NewParameter("prefix", meta.String))
	must(l.Item.AddOperation(l.Describe))
	must(l.Book.Implement("describe", func(self any, args []any) (any, error) {
		title, err := self.(getter).Get("title")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%s%s", args[0], title), nil
	}))

	l.WriterName = meta.NewAttribute("name", meta.String, meta.Identifier())
	l.WriterBooks = meta.NewReference("books", l.Book, meta.Many())
	l.WriterFavourite = meta.NewReference("favourite", l.Book)
	l.Writer.MustAddFeatures(l.WriterName, l.WriterBooks, l.WriterFavourite)

	l.NodeName = meta.NewAttribute("name", meta.String)
	l.NodeChildren = meta.NewReference("children", l.Node, meta.Many(), meta.Contained())
	l.NodeParent = meta.NewReference("parent", l.Node)
	l.NodeNext = meta.NewReference("next", l.Node)
	l.NodePeers = meta.NewReference("peers", l.Node, meta.Bounds(0, 2))
	l.Node.MustAddFeatures(l.NodeName, l.NodeChildren, l.NodeParent, l.NodeNext, l.NodePeers)

	must(meta.SetOpposite(l.LibraryBooks, l.BookLibrary))
	must(meta.SetOpposite(l.BookAuthors, l.WriterBooks))
	must(meta.SetOpposite(l.NodeChildren, l.NodeParent))

	l.Package.MustAdd(l.Genre, l.Item, l.Library, l.Book, l.Writer, l.Node)
	must(l.Package.Validate())
	return l
}

// getter is the part of a graph object the fixture's bodies need.
type getter interface {
	Get(name string) (any, error)
	Values(name string) ([]any, error)
}

// summary derives "<title> (<n> authors)".
func (l *Library) summary(self any) (any, error) {
	o := self.(getter)
	title, err := o.Get("title")
	if err != nil {
		return nil, err
	}
	authors, err := o.Values("authors")
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%s (%d authors)", title, len(authors)), nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// LibraryHCL is the fixture metamodel written in the HCL schema language.
var LibraryHCL = Unindent(`
	package "library" {
	  ns_uri    = "http://example.org/library"
	  ns_prefix = "lib"
	}

	enum "Genre" {
	  literals = ["Fiction", "Poetry", "Reference"]
	}

	class "Item" {
	  abstract = true

	  operation "describe" {
	    type = "String"
	    parameter "prefix" {
	      type = "String"
	    }
	  }
	}

	class "Library" {
	  attribute "name" {
	    type = "String"
	    id   = true
	  }
	  reference "books" {
	    type        = "Book"
	    upper       = -1
	    containment = true
	    opposite    = "library"
	  }
	  reference "writers" {
	    type        = "Writer"
	    upper       = -1
	    containment = true
	  }
	}

	class "Book" {
	  supertypes = ["Item"]

	  attribute "title" {
	    type  = "String"
	    id    = true
	    lower = 1
	  }
	  attribute "pages" {
	    type = "Int"
	  }
	  attribute "genre" {
	    type    = "Genre"
	    default = "Fiction"
	  }
	  attribute "tags" {
	    type  = "String"
	    upper = -1
	  }
	  reference "authors" {
	    type     = "Writer"
	    upper    = -1
	    opposite = "books"
	  }
	  reference "library" {
	    type = "Library"
	  }
	}

	class "Writer" {
	  attribute "name" {
	    type = "String"
	    id   = true
	  }
	  reference "books" {
	    type  = "Book"
	    upper = -1
	  }
	}
`)

// Unindent strips the common leading whitespace of s and its first and last
// blank lines, so fixtures can be indented with the surrounding code.
func Unindent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n") + "\n"
	}

	var b strings.Builder
	for _, line := range lines {
		if len(line) >= minIndent {
			b.WriteString(line[minIndent:])
		} else {
			b.WriteString(strings.TrimSpace(line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
