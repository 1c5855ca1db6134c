// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/value"
	"github.com/zclconf/go-cty/cty/gocty"
)

var constantSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
		{Name: "kind"},
	},
}

func (d *decoder) constant(b *hcl.Block) error {
	name, err := d.define(b)
	if err != nil {
		return err
	}
	content, diags := b.Body.Content(constantSchema)
	if diags.HasErrors() {
		return diags
	}

	v, err := d.static(content, "value")
	if err != nil {
		return err
	}
	return d.exec(b, syntax.Assign{
		Name: name,
		Expr: syntax.Constant{Value: v},
	})
}

var stochasticSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "distribution", Required: true},
		{Name: "params"},
		{Name: "value"},
		{Name: "kind"},
		{Name: "observed"},
	},
}

func (d *decoder) stochastic(b *hcl.Block) error {
	name, err := d.define(b)
	if err != nil {
		return err
	}
	content, diags := b.Body.Content(stochasticSchema)
	if diags.HasErrors() {
		return diags
	}

	var draw syntax.Draw
	draw.Dist, _, err = getAttr[string](content, "distribution")
	if err != nil {
		return err
	}
	draw.Params, err = d.list(content, "params")
	if err != nil {
		return err
	}
	if _, ok := content.Attributes["value"]; ok {
		draw.Value, err = d.static(content, "value")
		if err != nil {
			return err
		}
		// without an explicit kind
		// numbers take the kind of the distribution
		if _, ok := content.Attributes["kind"]; !ok && draw.Value.IsNumber() {
			if dd, err := d.env.Distributions.Lookup(draw.Dist); err == nil && dd.Kind() != value.Vector {
				if v, err := convert(draw.Value, dd.Kind()); err == nil {
					draw.Value = v
				}
			}
		}
	}
	draw.Observed, _, err = getAttr[bool](content, "observed")
	if err != nil {
		return err
	}

	if err := d.exec(b, syntax.Assign{Name: name, Expr: draw}); err != nil {
		return err
	}
	if !draw.Observed {
		d.monitors = append(d.monitors, name)
	}
	return nil
}

var deterministicSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "function", Required: true},
		{Name: "args"},
		{Name: "label"},
	},
}

func (d *decoder) deterministic(b *hcl.Block) error {
	name, err := d.define(b)
	if err != nil {
		return err
	}
	content, diags := b.Body.Content(deterministicSchema)
	if diags.HasErrors() {
		return diags
	}

	var call syntax.Call
	call.Func, _, err = getAttr[string](content, "function")
	if err != nil {
		return err
	}
	call.Args, err = d.list(content, "args")
	if err != nil {
		return err
	}

	var e syntax.Expr = call
	label, ok, err := getAttr[string](content, "label")
	if err != nil {
		return err
	}
	if ok {
		e = syntax.Labeled{Label: label, Expr: call}
	}

	if err := d.exec(b, syntax.Assign{Name: name, Expr: e}); err != nil {
		return err
	}
	d.monitors = append(d.monitors, name)
	return nil
}

var moveSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "size"},
		{Name: "weight"},
	},
}

func (d *decoder) move(b *hcl.Block) error {
	target := b.Labels[0]
	content, diags := b.Body.Content(moveSchema)
	if diags.HasErrors() {
		return diags
	}

	tp, _, err := getAttr[string](content, "type")
	if err != nil {
		return err
	}
	size, _, err := getAttr[float64](content, "size")
	if err != nil {
		return err
	}
	weight, _, err := getAttr[float64](content, "weight")
	if err != nil {
		return err
	}

	id, err := d.env.Workspace.MustLookup(target)
	if err != nil {
		return fmt.Errorf("%s: move %q: %w", b.DefRange, target, err)
	}
	mv, err := mcmc.NewMove(tp, target, id, size, weight)
	if err != nil {
		return fmt.Errorf("%s: move %q: %w", b.DefRange, target, err)
	}
	d.m.Moves = append(d.m.Moves, mv)
	return nil
}

// GetAttr returns the value of an attribute
// decoded into a Go type.
// If the attribute is not defined,
// it returns the zero value and false.
func getAttr[T any](content *hcl.BodyContent, name string) (T, bool, error) {
	var x T
	attr, ok := content.Attributes[name]
	if !ok {
		return x, false, nil
	}
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return x, false, diags
	}
	if err := gocty.FromCtyValue(v, &x); err != nil {
		return x, false, fmt.Errorf("%s: %s: %w", attr.Range, name, err)
	}
	return x, true, nil
}

// Static returns the value of an attribute
// that must be a static value,
// converted to the kind
// defined by the "kind" attribute.
func (d *decoder) static(content *hcl.BodyContent, name string) (value.Value, error) {
	attr := content.Attributes[name]
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return value.Value{}, fmt.Errorf("%s: %s: expecting a static value: %w", attr.Range, name, diags)
	}
	val, err := fromCty(v)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: %s: %w", attr.Range, name, err)
	}

	kn, ok, err := getAttr[string](content, "kind")
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return val, nil
	}
	k, err := value.ParseKind(kn)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: kind: %w", content.Attributes["kind"].Range, err)
	}
	val, err = convert(val, k)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: %s: %w", attr.Range, name, err)
	}
	return val, nil
}

// List returns the elements of a list attribute
// as expressions.
func (d *decoder) list(content *hcl.BodyContent, name string) ([]syntax.Expr, error) {
	attr, ok := content.Attributes[name]
	if !ok {
		return nil, nil
	}
	elems, diags := hcl.ExprList(attr.Expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %s: expecting a list: %w", attr.Range, name, diags)
	}
	exprs := make([]syntax.Expr, 0, len(elems))
	for _, e := range elems {
		x, err := toExpr(e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		exprs = append(exprs, x)
	}
	return exprs, nil
}
