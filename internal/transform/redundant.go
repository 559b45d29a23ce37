// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import "github.com/kreako/fig2json/internal/document"

// redundantFields duplicate state the editor tracks elsewhere and carry no
// information of their own.
var redundantFields = setOf([]string{
	"stackCounterAlignItems",
	"stackPrimaryAlignItems",
	"stackChildAlignSelf",
	"stackChildPrimaryGrow",
	"stackCounterSizing",
	"stackPrimarySizing",

	"resizeToFit",
	"frameMaskDisabled",
	"targetAspectRatio",
	"guides",
	"layoutGrids",

	"backgroundEnabled",
	"backgroundOpacity",
})

var borderWeightFields = []string{
	"borderTopWeight",
	"borderBottomWeight",
	"borderLeftWeight",
	"borderRightWeight",
}

var cornerRadiusFields = []string{
	"rectangleTopLeftCornerRadius",
	"rectangleTopRightCornerRadius",
	"rectangleBottomLeftCornerRadius",
	"rectangleBottomRightCornerRadius",
}

// redundantPass drops fields fully derivable from other retained fields.
// keep holds the caller's extra preserve names: those outrank even the
// derived-geometry rule.
type redundantPass struct {
	skip preserveSet
	keep preserveSet
}

func (redundantPass) Name() string { return "redundant" }

func (p redundantPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	eachNodeObject(out, p.skip, func(o *document.Object) {
		for _, key := range o.Keys() {
			if !p.skip.contains(key) && redundantFields.contains(key) {
				o.Delete(key)
			}
		}

		// Per-side border weights duplicate the uniform stroke weight
		// unless explicitly marked independent. An explicit true keeps the
		// per-side values and the marker that explains them.
		if independent, _ := o.Bool("borderStrokeWeightsIndependent"); !independent {
			for _, key := range borderWeightFields {
				p.delete(o, key)
			}
			p.delete(o, "borderStrokeWeightsIndependent")
		}

		// Per-corner radii duplicate the uniform radius the same way.
		if independent, _ := o.Bool("rectangleCornerRadiiIndependent"); !independent {
			if o.Has("cornerRadius") {
				for _, key := range cornerRadiusFields {
					p.delete(o, key)
				}
			}
			p.delete(o, "rectangleCornerRadiiIndependent")
		}

		// Right/bottom padding mirrors the horizontal/vertical value.
		if o.Has("stackHorizontalPadding") {
			p.delete(o, "stackPaddingRight")
		}
		if o.Has("stackVerticalPadding") {
			p.delete(o, "stackPaddingBottom")
		}

		// Fill and stroke geometry are derived from the vector source data;
		// they only carry information when no source survives on the node.
		if o.Has("vectorNetwork") || o.Has("commands") {
			if !p.keep.contains("fillGeometry") {
				o.Delete("fillGeometry")
			}
			if !p.keep.contains("strokeGeometry") {
				o.Delete("strokeGeometry")
			}
		}
	})
	return out
}

func (p redundantPass) delete(o *document.Object, key string) {
	if !p.skip.contains(key) {
		o.Delete(key)
	}
}
