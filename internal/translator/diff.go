// Package translator fills translation gaps in i18n JSON resource files.
//
// This file contains the gap detector: a pure function that computes which
// parts of a base-language tree still need translating in a target tree.
// No I/O, no mutation of either input.
package translator

// Diff returns the gap tree for one base/target pair: every base key whose
// target value is missing, falsy, or structurally behind the base. Rules,
// per base key:
//
//   - target value deep-equals the base value: omitted.
//   - target value falsy (absent, null, "", 0, false, empty object): the
//     base value is included; nested objects recurse so only their missing
//     parts are carried.
//   - target value truthy and different: omitted for leaves (the target
//     already has its own translation), recursed for nested objects so
//     partially translated sections still surface their missing leaves.
//
// Keys present only in the target are never surfaced. The result is freshly
// allocated and shares no structure with the inputs.
func Diff(base, target *Tree) *Tree {
	gap := NewTree()
	if base == nil {
		return gap
	}
	for _, key := range base.keys {
		bv := base.values[key]
		tv, _ := target.Get(key)

		if DeepEqual(bv, tv) {
			continue
		}

		if isFalsy(tv) {
			if bt, ok := bv.(*Tree); ok {
				sub := Diff(bt, treeOrEmpty(tv))
				if sub.Len() > 0 {
					gap.Set(key, sub)
				}
				continue
			}
			gap.Set(key, cloneValue(bv))
			continue
		}

		bt, bok := bv.(*Tree)
		tt, tok := tv.(*Tree)
		if bok && tok {
			sub := Diff(bt, tt)
			if sub.Len() > 0 {
				gap.Set(key, sub)
			}
		}
	}
	return gap
}

// treeOrEmpty lets the detector recurse against a missing or null target
// branch as if it were an empty object.
func treeOrEmpty(v any) *Tree {
	if t, ok := v.(*Tree); ok {
		return t
	}
	return NewTree()
}

// reopenMarked adds back into the gap every base key whose target value is
// the missing-translation marker. Used by the driver when retranslate is
// set, so previously substituted markers get another attempt.
func reopenMarked(gap, base, target *Tree) {
	if base == nil || target == nil {
		return
	}
	for _, key := range base.keys {
		bv := base.values[key]
		tv, ok := target.Get(key)
		if !ok {
			continue
		}
		if s, isStr := tv.(string); isStr && s == MissingMarker {
			gap.Set(key, cloneValue(bv))
			continue
		}
		bt, bok := bv.(*Tree)
		tt, tok := tv.(*Tree)
		if bok && tok {
			sub, exists := gap.Get(key)
			subTree, isTree := sub.(*Tree)
			if !exists || !isTree {
				subTree = NewTree()
			}
			reopenMarked(subTree, bt, tt)
			if subTree.Len() > 0 {
				gap.Set(key, subTree)
			}
		}
	}
}
