// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreako/fig2json/internal/document"
)

func applyCleanup(fields *document.Object) *document.Object {
	p := cleanupPass{skip: builtinPreserve()}
	return p.Apply(node(fields)).Fields
}

func TestCleanup_EmptyObjectsCascade(t *testing.T) {
	fields := obj(
		"a", obj("b", obj()),
		"kept", obj("x", 1.0),
	)
	got := applyCleanup(fields)
	assert.Equal(t, []string{"kept"}, got.Keys())
}

func TestCleanup_EmptyObjectsInArrays(t *testing.T) {
	fields := obj("lines", []any{obj(), obj("x", 1.0), obj()})
	got := applyCleanup(fields)
	lines, ok := got.Array("lines")
	require.True(t, ok)
	assert.Len(t, lines, 1)
}

func TestCleanup_EmptyPaintAndLineArraysRemoved(t *testing.T) {
	fields := obj(
		"fillPaints", []any{},
		"strokePaints", []any{obj()},
		"lines", []any{},
		"children", []any{},
	)
	got := applyCleanup(fields)
	// Generic empty arrays stay; the known list fields go.
	assert.Equal(t, []string{"children"}, got.Keys())
}

func TestCleanup_InvisiblePaints(t *testing.T) {
	fields := obj("fillPaints", []any{
		obj("type", "SOLID", "visible", false),
		obj("type", "SOLID", "color", "#000000"),
	})
	got := applyCleanup(fields)
	paints, _ := got.Array("fillPaints")
	require.Len(t, paints, 1)
	assert.True(t, paints[0].(*document.Object).Has("color"))

	// Outside paint lists, visibility is not a removal signal.
	other := applyCleanup(obj("effects", []any{obj("visible", false, "type", "BLUR")}))
	effects, _ := other.Array("effects")
	assert.Len(t, effects, 1)
}

func TestCleanup_VisibleOnlyObjects(t *testing.T) {
	fields := obj("mask", obj("visible", false), "name", "n")
	got := applyCleanup(fields)
	assert.Equal(t, []string{"name"}, got.Keys())
}

func TestCleanup_PreservedFieldsStay(t *testing.T) {
	fields := obj(
		"vectorNetwork", obj("vertices", []any{}, "segments", []any{}, "regions", []any{}),
		"husk", obj(),
	)
	got := applyCleanup(fields)
	assert.True(t, got.Has("vectorNetwork"))
	assert.False(t, got.Has("husk"))
}
