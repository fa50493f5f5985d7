package legaldoc

// Record is one row of the flat input consumed by Build. Records arrive in
// citation order; Depth expresses nesting: a record either descends one
// level below the previous record (previous depth + 1) or closes levels by
// staying at or above an already-open depth.
type Record struct {
	// Type is the structural kind of the unit this record describes.
	Type UnitType `json:"type"`

	// Label is the citation token, e.g. "Título I" or "Art. 5º".
	Label string `json:"label"`

	// Text is the raw content attached to the unit. May be empty for
	// structural containers.
	Text string `json:"text,omitempty"`

	// Depth is the 1-based nesting depth of the unit.
	Depth int `json:"depth"`
}

// Build assembles an immutable Document from an ordered sequence of records,
// validating the nesting grammar, depth consistency, and citation-path
// uniqueness at every step. It returns a *StructuralError when the input is
// empty, a depth jumps by more than one level, a record's type is not a
// legal child of its parent's type, or two siblings under one parent carry
// the same label (which would make their citation paths collide).
func Build(title string, records []Record) (*Document, error) {
	if len(records) == 0 {
		return nil, &StructuralError{Record: -1, Reason: "empty input: a document needs at least one unit"}
	}

	doc := &Document{
		title: title,
		units: make([]Unit, 0, len(records)),
	}

	// stack holds the arena indexes of the currently open ancestor chain;
	// stack[i] is the open unit at depth i+1.
	var stack []int

	for i, rec := range records {
		if !rec.Type.Valid() {
			return nil, structuralErrorf(i, "unknown unit type %d", int(rec.Type))
		}
		if rec.Label == "" {
			return nil, structuralErrorf(i, "%s has no label", rec.Type)
		}
		if rec.Depth < 1 {
			return nil, structuralErrorf(i, "depth %d is below 1", rec.Depth)
		}
		if rec.Depth > len(stack)+1 {
			return nil, structuralErrorf(i, "depth jumps from %d to %d", len(stack), rec.Depth)
		}

		// Close levels down to the record's parent depth.
		stack = stack[:rec.Depth-1]

		parent := rootID
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		if parent == rootID {
			if !RootAllowed(rec.Type) {
				return nil, structuralErrorf(i, "%s cannot appear at the top level of a document", rec.Type)
			}
		} else if !CanContain(doc.units[parent].Type, rec.Type) {
			return nil, structuralErrorf(i, "%s cannot contain %s", doc.units[parent].Type, rec.Type)
		}

		siblings := doc.childIDs(parent)
		ordinal := 1
		for _, sid := range siblings {
			sib := &doc.units[sid]
			if sib.Label == rec.Label {
				return nil, structuralErrorf(i, "duplicate label %q under the same parent: citation paths would collide", rec.Label)
			}
			if sib.Type == rec.Type {
				ordinal++
			}
		}

		id := len(doc.units)
		doc.units = append(doc.units, Unit{
			Type:    rec.Type,
			Label:   rec.Label,
			Ordinal: ordinal,
			Text:    rec.Text,
			id:      id,
			parent:  parent,
		})

		if parent == rootID {
			doc.topLevel = append(doc.topLevel, id)
		} else {
			doc.units[parent].children = append(doc.units[parent].children, id)
		}

		stack = append(stack, id)
	}

	return doc, nil
}

// childIDs returns the arena indexes of the direct children of the given
// parent, where rootID means the document root.
func (d *Document) childIDs(parent int) []int {
	if parent == rootID {
		return d.topLevel
	}
	return d.units[parent].children
}
