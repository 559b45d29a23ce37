// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kreako/fig2json/internal/document"
)

func applyRedundant(fields *document.Object) *document.Object {
	p := redundantPass{skip: builtinPreserve()}
	return p.Apply(node(fields)).Fields
}

func TestRedundant_UnconditionalBookkeeping(t *testing.T) {
	fields := obj(
		"stackCounterAlignItems", "CENTER",
		"stackChildPrimaryGrow", 1.0,
		"guides", []any{},
		"layoutGrids", []any{},
		"backgroundEnabled", true,
		"backgroundOpacity", 1.0,
		"stackMode", "HORIZONTAL",
	)
	got := applyRedundant(fields)
	assert.Equal(t, []string{"stackMode"}, got.Keys())
}

func TestRedundant_BorderWeights(t *testing.T) {
	uniform := obj(
		"strokeWeight", 2.0,
		"borderTopWeight", 2.0,
		"borderBottomWeight", 2.0,
		"borderLeftWeight", 2.0,
		"borderRightWeight", 2.0,
		"borderStrokeWeightsIndependent", false,
	)
	got := applyRedundant(uniform)
	assert.Equal(t, []string{"strokeWeight"}, got.Keys())

	independent := obj(
		"borderTopWeight", 1.0,
		"borderBottomWeight", 4.0,
		"borderStrokeWeightsIndependent", true,
	)
	got = applyRedundant(independent)
	assert.Equal(t, 3, got.Len())
}

func TestRedundant_CornerRadii(t *testing.T) {
	duplicated := obj(
		"cornerRadius", 8.0,
		"rectangleTopLeftCornerRadius", 8.0,
		"rectangleTopRightCornerRadius", 8.0,
		"rectangleBottomLeftCornerRadius", 8.0,
		"rectangleBottomRightCornerRadius", 8.0,
		"rectangleCornerRadiiIndependent", false,
	)
	got := applyRedundant(duplicated)
	assert.Equal(t, []string{"cornerRadius"}, got.Keys())

	// Without a uniform radius the per-corner values are the information.
	standalone := obj("rectangleTopLeftCornerRadius", 8.0)
	got = applyRedundant(standalone)
	assert.True(t, got.Has("rectangleTopLeftCornerRadius"))

	independent := obj(
		"cornerRadius", 8.0,
		"rectangleTopLeftCornerRadius", 16.0,
		"rectangleCornerRadiiIndependent", true,
	)
	got = applyRedundant(independent)
	assert.Equal(t, 3, got.Len())
}

func TestRedundant_Padding(t *testing.T) {
	fields := obj(
		"stackHorizontalPadding", 8.0,
		"stackPaddingRight", 8.0,
		"stackVerticalPadding", 4.0,
		"stackPaddingBottom", 4.0,
	)
	got := applyRedundant(fields)
	assert.Equal(t, []string{"stackHorizontalPadding", "stackVerticalPadding"}, got.Keys())

	// Right padding with no horizontal value stands on its own.
	alone := applyRedundant(obj("stackPaddingRight", 8.0))
	assert.True(t, alone.Has("stackPaddingRight"))
}

func TestRedundant_DerivedGeometry(t *testing.T) {
	derived := obj(
		"vectorNetwork", obj("vertices", []any{}),
		"fillGeometry", "M 0 0 Z",
		"strokeGeometry", "M 0 0 Z",
	)
	got := applyRedundant(derived)
	assert.Equal(t, []string{"vectorNetwork"}, got.Keys())

	// With no vector source the geometry is all there is.
	sole := applyRedundant(obj("fillGeometry", "M 0 0 Z"))
	assert.True(t, sole.Has("fillGeometry"))
}

func TestRedundant_UserPreserveOutranksGeometryRule(t *testing.T) {
	keep := setOf([]string{"fillGeometry"})
	p := redundantPass{skip: builtinPreserve().merge(keep), keep: keep}
	fields := obj("commands", "M 0 0 Z", "fillGeometry", "M 0 0 Z", "strokeGeometry", "M 0 0 Z")
	got := p.Apply(node(fields)).Fields
	assert.True(t, got.Has("fillGeometry"))
	assert.False(t, got.Has("strokeGeometry"))
}

func TestRedundant_AppliesToNestedObjects(t *testing.T) {
	child := obj("guides", []any{obj("axis", "X")})
	fields := obj("overrides", []any{child})
	got := applyRedundant(fields)
	overrides, _ := got.Array("overrides")
	assert.Equal(t, 0, overrides[0].(*document.Object).Len())
}
