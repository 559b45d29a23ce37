// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/kreako/fig2json/internal/document"
)

// simplifyPass rewrites verbose decoded records into compact display
// forms. Color and transform records are recognized by shape wherever they
// appear; letter spacing, line height and image references by their field
// name. Runs before the stripping passes so they compare against the
// canonical forms.
type simplifyPass struct{}

func (simplifyPass) Name() string { return "simplify" }

func (simplifyPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	out.Walk(func(n *document.Node, _ int) {
		simplifyObject(n.Fields)
	})
	return out
}

func simplifyObject(o *document.Object) {
	for _, key := range o.Keys() {
		v, _ := o.Get(key)
		switch t := v.(type) {
		case *document.Object:
			if s, ok := colorString(t); ok {
				o.Set(key, s)
				continue
			}
			if s, ok := matrixString(t); ok {
				o.Set(key, s)
				continue
			}
			if key == "letterSpacing" || key == "lineHeight" {
				if s, ok := unitString(t); ok {
					o.Set(key, s)
					continue
				}
			}
			if key == "image" || key == "imageThumbnail" {
				imageFilename(t)
			}
			simplifyObject(t)
		case []any:
			simplifyArray(t)
		}
	}
}

func simplifyArray(a []any) {
	for i := range a {
		switch t := a[i].(type) {
		case *document.Object:
			if s, ok := colorString(t); ok {
				a[i] = s
				continue
			}
			if s, ok := matrixString(t); ok {
				a[i] = s
				continue
			}
			simplifyObject(t)
		case []any:
			simplifyArray(t)
		}
	}
}

// colorString renders a {r,g,b} or {r,g,b,a} record of 0..1 floats as
// "#rrggbb" when fully opaque, "rgba(R, G, B, A)" otherwise.
func colorString(o *document.Object) (string, bool) {
	switch o.Len() {
	case 3:
		if o.Has("a") {
			return "", false
		}
	case 4:
		if !o.Has("a") {
			return "", false
		}
	default:
		return "", false
	}
	r, ok := o.Number("r")
	if !ok {
		return "", false
	}
	g, ok := o.Number("g")
	if !ok {
		return "", false
	}
	b, ok := o.Number("b")
	if !ok {
		return "", false
	}
	a := 1.0
	if o.Has("a") {
		if a, ok = o.Number("a"); !ok {
			return "", false
		}
	}
	if a == 1 {
		return fmt.Sprintf("#%02x%02x%02x", channelByte(r), channelByte(g), channelByte(b)), true
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		channelByte(r), channelByte(g), channelByte(b), formatNumber(a)), true
}

func channelByte(v float64) uint8 {
	v = math.Min(math.Max(v, 0), 1)
	return uint8(math.Round(v * 255))
}

var matrixKeys = [6]string{"m00", "m10", "m01", "m11", "m02", "m12"}

// matrixString renders a 2x3 affine record {m00..m12} as a CSS
// "matrix(a, b, c, d, e, f)" string; the CSS order is column-major.
func matrixString(o *document.Object) (string, bool) {
	if o.Len() != 6 {
		return "", false
	}
	var parts [6]string
	for i, key := range matrixKeys {
		v, ok := o.Number(key)
		if !ok {
			return "", false
		}
		parts[i] = formatNumber(v)
	}
	return fmt.Sprintf("matrix(%s, %s, %s, %s, %s, %s)",
		parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]), true
}

// unitString renders a {units, value} measurement as "N%" or "Npx".
func unitString(o *document.Object) (string, bool) {
	if o.Len() != 2 {
		return "", false
	}
	units, ok := o.String("units")
	if !ok {
		return "", false
	}
	v, ok := o.Number("value")
	if !ok {
		return "", false
	}
	switch units {
	case "PERCENT":
		return formatNumber(v) + "%", true
	case "PIXELS":
		return formatNumber(v) + "px", true
	default:
		return "", false
	}
}

// imageFilename folds an image record's hash bytes into a display file
// name, in place.
func imageFilename(o *document.Object) {
	v, ok := o.Get("hash")
	if !ok {
		return
	}
	b, ok := v.([]byte)
	if !ok || len(b) == 0 {
		return
	}
	o.Replace("hash", "filename", hex.EncodeToString(b)+".png")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
