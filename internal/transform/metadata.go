// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import "github.com/kreako/fig2json/internal/document"

// metadataFields are dropped wherever they appear: identity bookkeeping,
// edit/session state, plugin payloads, style and symbol backreferences,
// cached text layout, image source bookkeeping and font feature caches.
// None of them affect how the document renders.
var metadataFields = setOf([]string{
	"guid",
	"guidPath",
	"phase",
	"editInfo",
	"pluginData",
	"exportSettings",

	"styleIdForFill",
	"styleIdForText",
	"styleIdForStrokeFill",

	"symbolData",
	"derivedSymbolData",
	"derivedSymbolDataLayoutVersion",
	"detachedSymbolId",
	"componentPropAssignments",

	"documentColorProfile",
	"userFacingVersion",

	"textData",
	"glyphs",
	"baselines",
	"logicalIndexToCharacterOffsetMap",
	"fontMetaData",
	"derivedLines",
	"truncatedHeight",
	"truncationStartIndex",
	"layoutSize",
	"textBidiVersion",
	"textExplicitLayoutVersion",
	"textUserLayoutVersion",
	"textDecorationSkipInk",
	"textTracking",
	"textAlignVertical",
	"textAutoResize",
	"fontVariantCommonLigatures",
	"fontVariantContextualLigatures",
	"fontVariations",
	"fontVersion",
	"emojiImageSet",
	"autoRename",

	"thumbHash",
	"animationFrame",
	"imageShouldColorManage",
	"imageScaleMode",
	"originalImageWidth",
	"originalImageHeight",
	"altText",
	"imageThumbnail",
})

// metadataPass drops editor bookkeeping fields.
type metadataPass struct {
	skip preserveSet
}

func (metadataPass) Name() string { return "metadata" }

func (p metadataPass) Apply(root *document.Node) *document.Node {
	out := root.Clone()
	eachNodeObject(out, p.skip, func(o *document.Object) {
		for _, key := range o.Keys() {
			if p.skip.contains(key) {
				continue
			}
			if metadataFields.contains(key) {
				o.Delete(key)
				continue
			}
			v, _ := o.Get(key)
			switch key {
			case "symbolID", "overriddenSymbolID":
				// Bare identity references carry nothing renderable.
				if isGUIDRecord(v) {
					o.Delete(key)
				}
			case "postscript":
				if s, ok := v.(string); ok && s == "" {
					o.Delete(key)
				}
			}
		}
		// Image placement bookkeeping only matters to the editor.
		if t, _ := o.String("type"); t == "IMAGE" {
			o.Delete("rotation")
			o.Delete("scale")
		}
	})
	return out
}

func isGUIDRecord(v any) bool {
	o, ok := v.(*document.Object)
	return ok && o.Len() == 2 && o.Has("sessionID") && o.Has("localID")
}
