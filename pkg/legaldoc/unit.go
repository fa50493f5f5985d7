// Package legaldoc models a Brazilian legal text as a validated, ordered,
// typed tree of structural units (Livro, Título, Capítulo, Seção, Subseção,
// Artigo, Parágrafo, Inciso, Alínea) and exposes read-only traversal over it.
package legaldoc

import "fmt"

// UnitType identifies the kind of structural unit in a legal text.
// The values are ordered from the outermost container to the innermost leaf.
type UnitType int

const (
	// Book is a "Livro", the outermost division used by the large codes.
	Book UnitType = iota
	// Title is a "Título".
	Title
	// Chapter is a "Capítulo".
	Chapter
	// Section is a "Seção".
	Section
	// Subsection is a "Subseção".
	Subsection
	// Article is an "Artigo", the basic normative unit.
	Article
	// Paragraph is a "Parágrafo" (§ or "Parágrafo único").
	Paragraph
	// Clause is an "Inciso", numbered with Roman numerals.
	Clause
	// Item is an "Alínea", lettered a), b), c).
	Item
)

// unitTypeNames maps each UnitType to its English name.
var unitTypeNames = map[UnitType]string{
	Book:       "book",
	Title:      "title",
	Chapter:    "chapter",
	Section:    "section",
	Subsection: "subsection",
	Article:    "article",
	Paragraph:  "paragraph",
	Clause:     "clause",
	Item:       "item",
}

// unitTypePortuguese maps each UnitType to its Portuguese name as used in
// Brazilian legislative drafting.
var unitTypePortuguese = map[UnitType]string{
	Book:       "livro",
	Title:      "titulo",
	Chapter:    "capitulo",
	Section:    "secao",
	Subsection: "subsecao",
	Article:    "artigo",
	Paragraph:  "paragrafo",
	Clause:     "inciso",
	Item:       "alinea",
}

// String returns the English name of the unit type.
func (t UnitType) String() string {
	if name, ok := unitTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unittype(%d)", int(t))
}

// Portuguese returns the accent-free Portuguese name of the unit type
// (e.g. "titulo", "inciso"), suitable for identifiers and JSON keys.
func (t UnitType) Portuguese() string {
	if name, ok := unitTypePortuguese[t]; ok {
		return name
	}
	return fmt.Sprintf("unittype(%d)", int(t))
}

// Valid reports whether t is one of the nine defined unit types.
func (t UnitType) Valid() bool {
	_, ok := unitTypeNames[t]
	return ok
}

// ParseUnitType resolves a unit type from its English or Portuguese name.
// Matching is exact on the lowercase, accent-free forms returned by String
// and Portuguese.
func ParseUnitType(name string) (UnitType, bool) {
	for t, n := range unitTypeNames {
		if n == name {
			return t, true
		}
	}
	for t, n := range unitTypePortuguese {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// UnitTypes returns all unit types in hierarchical order, outermost first.
func UnitTypes() []UnitType {
	return []UnitType{Book, Title, Chapter, Section, Subsection, Article, Paragraph, Clause, Item}
}

// allowedChildren is the nesting grammar: which unit types may appear
// directly under a parent of each type. Items are always leaves.
var allowedChildren = map[UnitType][]UnitType{
	Book:       {Title},
	Title:      {Article, Chapter},
	Chapter:    {Article, Section},
	Section:    {Article, Subsection},
	Subsection: {Article},
	Article:    {Clause, Paragraph},
	Paragraph:  {Clause},
	Clause:     {Item},
	Item:       {},
}

// rootAllowed lists the unit types that may appear at the top level of a
// document. Constitutions open with Títulos, the codes with Livros, and
// ordinary statutes often start directly at Capítulos or Artigos.
var rootAllowed = []UnitType{Book, Title, Chapter, Article}

// CanContain reports whether the nesting grammar allows a unit of type
// child directly under a unit of type parent.
func CanContain(parent, child UnitType) bool {
	for _, t := range allowedChildren[parent] {
		if t == child {
			return true
		}
	}
	return false
}

// RootAllowed reports whether a unit of type t may appear at the top level
// of a document, directly under the document root.
func RootAllowed(t UnitType) bool {
	for _, rt := range rootAllowed {
		if rt == t {
			return true
		}
	}
	return false
}

// Unit is one node of the legal-text tree. Units are created by Build and
// are immutable afterwards; they reference their parent and children by
// arena index so ownership stays strictly top-down in the Document.
type Unit struct {
	// Type is the structural kind of this unit.
	Type UnitType

	// Label is the citation token for the unit, e.g. "Art. 5º" or "Inciso II".
	Label string

	// Ordinal is the 1-based position among siblings of the same type under
	// the same parent, in citation order.
	Ordinal int

	// Text is the raw textual content attached directly to this unit.
	// Structural containers usually carry only a heading here.
	Text string

	id       int   // index into the owning document's arena
	parent   int   // arena index of the parent, rootID for top-level units
	children []int // arena indexes of direct children, in citation order
}

// ID returns the unit's stable identifier within its document. IDs are
// assigned in document order starting at zero and are unique per document.
func (u *Unit) ID() int {
	return u.id
}
