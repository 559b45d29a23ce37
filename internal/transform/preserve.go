// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

// preserveSet names fields the stripping passes neither remove nor descend
// into. Vector path data and image references are verbose but required for
// visual fidelity, so they are allow-listed rather than trusted to stay
// clear of the removal tables.
type preserveSet map[string]struct{}

func builtinPreserve() preserveSet {
	return setOf([]string{
		"commands",
		"vectorNetwork",
		"fillGeometry",
		"strokeGeometry",
		"image",
	})
}

func setOf(keys []string) preserveSet {
	s := make(preserveSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s preserveSet) contains(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s[key]
	return ok
}

func (s preserveSet) merge(other preserveSet) preserveSet {
	out := make(preserveSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}
