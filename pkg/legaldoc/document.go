package legaldoc

import "strings"

// rootID is the pseudo parent index used by top-level units. The document
// itself is the single root of the tree; it is not represented as a Unit
// and does not appear in citation paths.
const rootID = -1

// Document is one legal text as an immutable tree of units. A Document is
// built once by Build and is read-only afterwards, so it may be shared
// across any number of concurrent readers without locking. A new version of
// the law is a new Document; existing snapshots are never mutated.
type Document struct {
	title    string
	units    []Unit
	topLevel []int
}

// Title returns the document's own title, e.g. "Constituição Federal de 1988".
func (d *Document) Title() string {
	return d.title
}

// Len returns the total number of units in the document.
func (d *Document) Len() int {
	return len(d.units)
}

// Unit returns the unit with the given document-order identifier, or nil
// when the id is out of range.
func (d *Document) Unit(id int) *Unit {
	if id < 0 || id >= len(d.units) {
		return nil
	}
	return &d.units[id]
}

// TopLevel returns the document's top-level units in citation order.
func (d *Document) TopLevel() []*Unit {
	return d.resolve(d.topLevel)
}

// ChildrenOf returns the direct children of u in citation order. The slice
// is freshly allocated; the tree itself is never exposed for mutation.
func (d *Document) ChildrenOf(u *Unit) []*Unit {
	if u == nil {
		return nil
	}
	return d.resolve(u.children)
}

// ParentOf returns the parent of u, or nil when u is a top-level unit.
func (d *Document) ParentOf(u *Unit) *Unit {
	if u == nil || u.parent == rootID {
		return nil
	}
	return &d.units[u.parent]
}

// PathOf returns the root-to-unit path, outermost unit first and u itself
// last. The path renders the unit's full citation.
func (d *Document) PathOf(u *Unit) []*Unit {
	if u == nil {
		return nil
	}
	var path []*Unit
	for cur := u; cur != nil; cur = d.ParentOf(cur) {
		path = append(path, cur)
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLabels returns the labels along the root-to-unit path of u.
func (d *Document) PathLabels(u *Unit) []string {
	path := d.PathOf(u)
	labels := make([]string, len(path))
	for i, p := range path {
		labels[i] = p.Label
	}
	return labels
}

// Citation renders the full citation of u, e.g.
// "Título I, Capítulo II, Art. 5º, Inciso II".
func (d *Document) Citation(u *Unit) string {
	return strings.Join(d.PathLabels(u), ", ")
}

// FindByPath resolves a citation path, one label per level starting at the
// top of the document, to the unit it names. Labels match exactly. It
// returns a *NotFoundError naming the first unmatched segment when any
// level fails to resolve, or when the path is empty.
func (d *Document) FindByPath(labels []string) (*Unit, error) {
	if len(labels) == 0 {
		return nil, &NotFoundError{Path: labels, Segment: ""}
	}

	candidates := d.topLevel
	var found *Unit
	for _, label := range labels {
		found = nil
		for _, id := range candidates {
			if d.units[id].Label == label {
				found = &d.units[id]
				break
			}
		}
		if found == nil {
			return nil, &NotFoundError{Path: labels, Segment: label}
		}
		candidates = found.children
	}
	return found, nil
}

// Walk visits every unit in document order (preorder, citation order among
// siblings). The walk stops early when fn returns false.
func (d *Document) Walk(fn func(*Unit) bool) {
	var visit func(ids []int) bool
	visit = func(ids []int) bool {
		for _, id := range ids {
			u := &d.units[id]
			if !fn(u) {
				return false
			}
			if !visit(u.children) {
				return false
			}
		}
		return true
	}
	visit(d.topLevel)
}

// UnitsOfType returns every unit of the given type in document order. The
// result is empty, not an error, when the document has none.
func (d *Document) UnitsOfType(t UnitType) []*Unit {
	var units []*Unit
	d.Walk(func(u *Unit) bool {
		if u.Type == t {
			units = append(units, u)
		}
		return true
	})
	return units
}

// resolve maps arena indexes to unit pointers.
func (d *Document) resolve(ids []int) []*Unit {
	units := make([]*Unit, len(ids))
	for i, id := range ids {
		units[i] = &d.units[id]
	}
	return units
}
