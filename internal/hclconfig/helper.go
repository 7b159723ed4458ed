package hclconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/clausejson/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether expr was written in the file. The decoder
// fills omitted optional attributes with zero-width placeholder
// expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	defined := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if settings attribute was defined.",
		"attribute", attrName,
		"hcl_range", rng.String(),
		"is_defined", defined,
	)
	return defined
}

// evalAttr evaluates expr and converts the result to want. It returns a
// null value for omitted attributes.
func evalAttr(ctx context.Context, expr hcl.Expression, attrName string, want cty.Type, evalCtx *hcl.EvalContext) (cty.Value, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return cty.NullVal(want), nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid value for '%s': %w", attrName, diags)
	}
	if val.IsNull() {
		return cty.NullVal(want), nil
	}
	if !val.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("value for '%s' is not known", attrName)
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid value for '%s': %w", attrName, err)
	}
	return converted, nil
}

func stringAttr(ctx context.Context, expr hcl.Expression, attrName string, evalCtx *hcl.EvalContext) (*string, error) {
	val, err := evalAttr(ctx, expr, attrName, cty.String, evalCtx)
	if err != nil || val.IsNull() {
		return nil, err
	}
	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return nil, fmt.Errorf("invalid value for '%s': %w", attrName, err)
	}
	return &s, nil
}

func boolAttr(ctx context.Context, expr hcl.Expression, attrName string, evalCtx *hcl.EvalContext) (*bool, error) {
	val, err := evalAttr(ctx, expr, attrName, cty.Bool, evalCtx)
	if err != nil || val.IsNull() {
		return nil, err
	}
	var b bool
	if err := gocty.FromCtyValue(val, &b); err != nil {
		return nil, fmt.Errorf("invalid value for '%s': %w", attrName, err)
	}
	return &b, nil
}
