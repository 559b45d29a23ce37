// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"encoding/base64"

	"github.com/kreako/fig2json/internal/kiwi"
	"github.com/kreako/fig2json/pkg/types"
)

// Raw materializes the untransformed document: the container's version and
// flavor, then the decoded root record's fields exactly as the wire ordered
// them. No identity bookkeeping is consumed and no passes apply; blob
// payloads flatten to standard base64 strings.
func Raw(version uint32, fileType types.FileType, root *kiwi.Record) *Object {
	o := NewObject()
	o.Set("version", uint64(version))
	o.Set("fileType", string(fileType))
	rec := FromRecord(root)
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		o.Set(key, v)
	}
	if blobs, ok := o.Array("blobs"); ok {
		o.Set("blobs", flattenBlobs(blobs))
	}
	return o
}

// flattenBlobs turns blob records {bytes: ...} into plain base64 strings.
// Elements of any other shape stay as decoded.
func flattenBlobs(blobs []any) []any {
	out := make([]any, len(blobs))
	for i, e := range blobs {
		out[i] = e
		rec, ok := e.(*Object)
		if !ok {
			continue
		}
		v, ok := rec.Get("bytes")
		if !ok {
			continue
		}
		if b, ok := v.([]byte); ok {
			out[i] = base64.StdEncoding.EncodeToString(b)
		}
	}
	return out
}
