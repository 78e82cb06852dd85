// This file parses the type expressions of datatype blocks (e.g. `string`,
// `list(number)`) into cty types and picks the Go type values are held as.

package hcldef

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var typeKeywords = map[string]cty.Type{
	"string": cty.String,
	"number": cty.Number,
	"bool":   cty.Bool,
	"any":    cty.DynamicPseudoType,
}

var typeConstructors = map[string]func(cty.Type) cty.Type{
	"list": cty.List,
	"map":  cty.Map,
	"set":  cty.Set,
}

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent: one of the keywords, or list, map or set applied to a
// non-any element type.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx).With("hcl_range", expr.Range().String())

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return keywordType(logger, v)
	case *hclsyntax.FunctionCallExpr:
		return constructedType(ctx, logger, v)
	default:
		logger.Debug("Rejected type expression.", "expr_type", fmt.Sprintf("%T", expr))
		return cty.DynamicPseudoType, fmt.Errorf("unsupported expression for type definition: %T", expr)
	}
}

func keywordType(logger *slog.Logger, v *hclsyntax.ScopeTraversalExpr) (cty.Type, error) {
	if len(v.Traversal) != 1 {
		logger.Debug("Rejected type keyword.", "segments", len(v.Traversal))
		return cty.DynamicPseudoType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
	}
	name := v.Traversal.RootName()
	ty, ok := typeKeywords[name]
	if !ok {
		logger.Debug("Rejected type keyword.", "keyword", name)
		return cty.DynamicPseudoType, fmt.Errorf("unknown primitive type %q", name)
	}
	logger.Debug("Parsed type keyword.", "keyword", name, "type", ty.FriendlyName())
	return ty, nil
}

func constructedType(ctx context.Context, logger *slog.Logger, v *hclsyntax.FunctionCallExpr) (cty.Type, error) {
	build, ok := typeConstructors[v.Name]
	if !ok {
		logger.Debug("Rejected type constructor.", "constructor", v.Name)
		return cty.DynamicPseudoType, fmt.Errorf("unknown type constructor function %q", v.Name)
	}
	if len(v.Args) != 1 {
		logger.Debug("Rejected type constructor.", "constructor", v.Name, "args", len(v.Args))
		return cty.DynamicPseudoType, fmt.Errorf("type constructors (list, map, set) require exactly one argument, got %d", len(v.Args))
	}
	elem, err := typeExprToCtyType(ctx, v.Args[0])
	if err != nil {
		return cty.DynamicPseudoType, err
	}
	if elem == cty.DynamicPseudoType {
		logger.Debug("Rejected type constructor.", "constructor", v.Name, "element", "any")
		return cty.DynamicPseudoType, fmt.Errorf("collection types cannot contain type 'any'")
	}
	ty := build(elem)
	logger.Debug("Parsed collection type.", "constructor", v.Name, "element", elem.FriendlyName(), "type", ty.FriendlyName())
	return ty, nil
}

// goTypeFor returns the Go type values of ty are stored as. Numbers are
// float64; nil means any value is accepted.
func goTypeFor(ty cty.Type) reflect.Type {
	switch {
	case ty == cty.String:
		return reflect.TypeOf("")
	case ty == cty.Number:
		return reflect.TypeOf(float64(0))
	case ty == cty.Bool:
		return reflect.TypeOf(false)
	case ty.IsListType() || ty.IsSetType():
		if elem := goTypeFor(ty.ElementType()); elem != nil {
			return reflect.SliceOf(elem)
		}
	case ty.IsMapType():
		if elem := goTypeFor(ty.ElementType()); elem != nil {
			return reflect.MapOf(reflect.TypeOf(""), elem)
		}
	}
	return nil
}
