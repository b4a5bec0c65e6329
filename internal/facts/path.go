package facts

import (
	"strconv"
	"strings"
)

// parsePath splits a dot path with optional bracket indices into segments:
// "a.b[2].c" -> ["a","b","2","c"].
func parsePath(path string) []string {
	norm := bracketIndex.ReplaceAllString(path, ".$1")
	parts := strings.Split(norm, ".")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

func isIndex(seg string) bool {
	_, err := strconv.Atoi(seg)
	return err == nil
}

// SetPath writes value into tree at path, creating intermediate containers as
// it walks. The container created for a segment is an array when the next
// segment is numeric, a plain object otherwise; the writer looks one segment
// ahead to decide. A numeric segment landing on a non-array coerces that
// position into a fresh array, discarding whatever was there; well-formed
// input never hits this, but the coercion is kept rather than rejected.
//
// A nil value is a no-op: "don't overwrite with unknown", relied on by the
// mapper for every skipped field.
func SetPath(tree map[string]any, path string, value any) {
	if value == nil || tree == nil {
		return
	}
	segs := parsePath(path)
	if len(segs) == 0 {
		return
	}
	// The root is always an object. A leading numeric segment implies an
	// array with no parent slot to live in, so the write is dropped.
	if len(segs) > 1 && isIndex(segs[0]) {
		return
	}

	var container any = tree
	for i := 0; i < len(segs)-1; i++ {
		seg := segs[i]
		next := segs[i+1]
		if isIndex(seg) {
			idx, _ := strconv.Atoi(seg)
			arr, _ := container.([]any)
			arr = growTo(arr, idx)
			child := arr[idx]
			if child == nil || !containerMatches(child, isIndex(next)) {
				child = newContainer(isIndex(next))
				arr[idx] = child
			}
			// The grown slice must be re-attached to its parent; setChild in
			// the previous iteration already stored it, so re-store here.
			storeInParent(tree, segs[:i], arr)
			container = child
			continue
		}

		obj, ok := container.(map[string]any)
		if !ok {
			return
		}
		child, exists := obj[seg]
		if isIndex(next) {
			arr, isArr := child.([]any)
			if !exists || !isArr {
				arr = []any{}
			}
			idx, _ := strconv.Atoi(next)
			arr = growTo(arr, idx)
			obj[seg] = arr
			container = arr
			continue
		}
		childObj, isObj := child.(map[string]any)
		if !exists || !isObj {
			childObj = map[string]any{}
			obj[seg] = childObj
		}
		container = childObj
	}

	last := segs[len(segs)-1]
	switch c := container.(type) {
	case map[string]any:
		c[last] = value
	case []any:
		if idx, err := strconv.Atoi(last); err == nil && idx >= 0 && idx < len(c) {
			c[idx] = value
		}
	}
}

// GetPath reads the value at path, or nil if any segment is missing. The
// mapper uses it for assign-if-absent checks against the first pass.
func GetPath(tree map[string]any, path string) any {
	var cur any = tree
	for _, seg := range parsePath(path) {
		switch c := cur.(type) {
		case map[string]any:
			cur = c[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil
			}
			cur = c[idx]
		default:
			return nil
		}
	}
	return cur
}

func newContainer(asArray bool) any {
	if asArray {
		return []any{}
	}
	return map[string]any{}
}

func containerMatches(v any, wantArray bool) bool {
	if wantArray {
		_, ok := v.([]any)
		return ok
	}
	_, ok := v.(map[string]any)
	return ok
}

// growTo extends arr so idx is addressable, padding with nils.
func growTo(arr []any, idx int) []any {
	for len(arr) <= idx {
		arr = append(arr, nil)
	}
	return arr
}

// storeInParent re-attaches a possibly-reallocated slice at the container
// addressed by segs. Walks from the root; cheap at these path depths.
func storeInParent(tree map[string]any, segs []string, arr []any) {
	if len(segs) == 0 {
		return
	}
	parentPath := strings.Join(segs[:len(segs)-1], ".")
	last := segs[len(segs)-1]
	var parent any = tree
	if parentPath != "" {
		parent = GetPath(tree, parentPath)
	}
	switch p := parent.(type) {
	case map[string]any:
		p[last] = arr
	case []any:
		if idx, err := strconv.Atoi(last); err == nil && idx >= 0 && idx < len(p) {
			p[idx] = arr
		}
	}
}
