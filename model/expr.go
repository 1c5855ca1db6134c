// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/value"
	"github.com/zclconf/go-cty/cty"
)

// ToExpr converts an HCL expression
// into a model expression.
func toExpr(e hcl.Expression) (syntax.Expr, error) {
	if len(e.Variables()) == 1 {
		if t, diags := hcl.AbsTraversalForExpr(e); !diags.HasErrors() {
			if len(t) != 1 {
				return nil, fmt.Errorf("%s: invalid reference to %q", e.Range(), t.RootName())
			}
			return syntax.Variable{Name: t.RootName()}, nil
		}
	}

	if call, diags := hcl.ExprCall(e); !diags.HasErrors() {
		args := make([]syntax.Expr, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			x, err := toExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, x)
		}
		return syntax.Call{Func: call.Name, Args: args}, nil
	}

	if _, ok := e.(*hclsyntax.TupleConsExpr); ok {
		elems, diags := hcl.ExprList(e)
		if diags.HasErrors() {
			return nil, diags
		}
		args := make([]syntax.Expr, 0, len(elems))
		static := true
		for _, el := range elems {
			x, err := toExpr(el)
			if err != nil {
				return nil, err
			}
			if _, ok := x.(syntax.Constant); !ok {
				static = false
			}
			args = append(args, x)
		}
		if !static {
			return syntax.Call{Func: "vector", Args: args}, nil
		}
		vs := make([]value.Value, len(args))
		for i, a := range args {
			vs[i] = a.(syntax.Constant).Value
		}
		return syntax.Constant{Value: value.NewVector(vs...)}, nil
	}

	v, diags := e.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: invalid expression: %w", e.Range(), diags)
	}
	val, err := fromCty(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Range(), err)
	}
	return syntax.Constant{Value: val}, nil
}

// FromCty converts a static HCL value.
// Integral numbers are converted to integers.
func fromCty(v cty.Value) (value.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return value.Value{}, fmt.Errorf("%w: undefined value", value.ErrInvalid)
	}
	tp := v.Type()
	if tp == cty.Number {
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == 0 {
				return value.NewInteger(n), nil
			}
		}
		x, _ := bf.Float64()
		return value.NewReal(x)
	}
	if tp.IsTupleType() || tp.IsListType() {
		var elems []value.Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e, err := fromCty(ev)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, e)
		}
		return value.NewVector(elems...), nil
	}
	return value.Value{}, fmt.Errorf("%w: unsupported type %s", value.ErrInvalid, tp.FriendlyName())
}

// Convert converts a value to a kind.
func convert(v value.Value, k value.Kind) (value.Value, error) {
	if v.Kind() == k {
		return v, nil
	}
	switch k {
	case value.Real:
		if !v.IsNumber() {
			break
		}
		return value.NewReal(v.Float())
	case value.Integer:
		if !v.IsNumber() || v.Float() != math.Trunc(v.Float()) {
			break
		}
		return value.NewInteger(int64(v.Float())), nil
	case value.PositiveReal:
		if !v.IsNumber() {
			break
		}
		return value.NewPositiveReal(v.Float())
	case value.Vector:
		if !v.IsNumber() {
			break
		}
		return value.NewVector(v), nil
	case value.Simplex:
		p, err := v.Floats()
		if err != nil || v.Kind() != value.Vector {
			break
		}
		return value.NewSimplex(p...)
	}
	return value.Value{}, fmt.Errorf("%w: can not convert %s into %s", value.ErrInvalid, v.Kind(), k)
}
