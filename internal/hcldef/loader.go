package hcldef

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/specialistvlad/metagraph/internal/fsutil"
	"github.com/specialistvlad/metagraph/internal/meta"
)

// Loader reads HCL metamodel files into packages.
type Loader struct {
	registry *meta.Registry
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry lets qualified type names ("nsURI#Name") resolve against
// packages registered before loading.
func WithRegistry(r *meta.Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// NewLoader creates a new HCL metamodel loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every .hcl file under paths and returns the packages they
// declare, in the order they were first seen. Paths may be files or
// directories; missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*meta.Package, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL metamodel loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", strings.Join(paths, ", "))
	}

	parser := hclparse.NewParser()
	parsed := make([]*hcl.File, 0, len(files))
	names := make([]string, 0, len(files))
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		parsed = append(parsed, f)
		names = append(names, file)
	}
	return l.build(ctx, names, parsed)
}

// LoadSource parses a single metamodel held in memory. filename is only used
// in messages.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) ([]*meta.Package, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.build(ctx, []string{filename}, []*hcl.File{f})
}

func (l *Loader) build(ctx context.Context, names []string, files []*hcl.File) ([]*meta.Package, error) {
	logger := ctxlog.FromContext(ctx)
	b := newBuilder(ctx, l.registry)

	for i, f := range files {
		var root fileRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", names[i], diags)
		}
		if err := b.declare(names[i], &root); err != nil {
			return nil, err
		}
	}
	b.define()
	b.link()

	if err := b.err(); err != nil {
		return nil, err
	}
	for _, p := range b.packages {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("package %q: %w", p.Name, err)
		}
	}
	logger.Debug("HCL metamodel loading complete.", "packages", len(b.packages), "classes", len(b.classes))
	return b.packages, nil
}
