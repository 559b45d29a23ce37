// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import "github.com/kreako/fig2json/internal/document"

// Defaults maps a field name to the value whose presence carries no
// information. A field is stripped only when its value equals the table
// entry exactly; floats get no epsilon, so a restored field always equals
// the documented default bit for bit.
type Defaults map[string]any

// BuiltinDefaults returns the shipped table. Measurement entries are in
// their canonical post-simplification string form.
func BuiltinDefaults() Defaults {
	return Defaults{
		"blendMode":          "NORMAL",
		"opacity":            1.0,
		"rotation":           0.0,
		"visible":            true,
		"uniformScaleFactor": 1.0,
		"letterSpacing":      "0%",
		"lineHeight":         "100%",
		"cornerSmoothing":    0.0,

		"strokeAlign":  "CENTER",
		"strokeJoin":   "MITER",
		"strokeWeight": 1.0,

		"horizontalConstraint": "MIN",
		"verticalConstraint":   "MIN",
		"scrollBehavior":       "SCROLLS",

		// Text line bookkeeping.
		"indentationLevel":     0.0,
		"isFirstLineOfList":    false,
		"lineType":             "PLAIN",
		"listStartOffset":      0.0,
		"sourceDirectionality": "AUTO",
		"styleId":              0.0,
	}
}

// merge returns a copy of the table with entries from over layered on top.
// Numeric override values are accepted in any Go numeric type.
func (d Defaults) merge(over map[string]any) Defaults {
	out := make(Defaults, len(d)+len(over))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range over {
		out[k] = normalizeDefault(v)
	}
	return out
}

func normalizeDefault(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// defaultsPass strips fields equal to their table default.
type defaultsPass struct {
	table Defaults
	skip  preserveSet
}

func (defaultsPass) Name() string { return "defaults" }

func (p defaultsPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	eachNodeObject(out, p.skip, func(o *document.Object) {
		for _, key := range o.Keys() {
			if p.skip.contains(key) {
				continue
			}
			def, ok := p.table[key]
			if !ok {
				continue
			}
			v, _ := o.Get(key)
			if equalValue(v, def) {
				o.Delete(key)
			}
		}
	})
	return out
}

// equalValue reports whether a decoded value matches a table default.
// Numeric kinds compare by value, everything else by type and value.
func equalValue(v, def any) bool {
	switch d := def.(type) {
	case nil:
		return v == nil
	case bool:
		b, ok := v.(bool)
		return ok && b == d
	case string:
		s, ok := v.(string)
		return ok && s == d
	default:
		dn, ok := document.NumberOf(normalizeDefault(def))
		if !ok {
			return false
		}
		vn, ok := document.NumberOf(v)
		return ok && vn == dn
	}
}
