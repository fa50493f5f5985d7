package index

import (
	"sort"
	"strings"

	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

// pathSep joins citation-path labels into index keys. Unit separator keeps
// keys unambiguous: labels never contain control characters.
const pathSep = "\x1f"

// posting is one inverted-index entry: a unit and how often a token occurs
// in that unit's own text.
type posting struct {
	id   int // unit id, which is also the unit's document-order rank
	freq int
}

// Index answers structural and textual queries over one immutable document.
// Build walks the tree exactly once; afterwards the index is read-only and
// safe to share across concurrent readers. A new document version gets a
// fresh Index; there is no incremental update path.
type Index struct {
	doc      *legaldoc.Document
	byPath   map[string]int
	byType   map[legaldoc.UnitType][]int
	postings map[string][]posting
}

// Build constructs an Index over doc in a single document-order walk. The
// same document always produces an index that answers every query
// identically.
func Build(doc *legaldoc.Document) *Index {
	idx := &Index{
		doc:      doc,
		byPath:   make(map[string]int),
		byType:   make(map[legaldoc.UnitType][]int),
		postings: make(map[string][]posting),
	}
	if doc == nil {
		return idx
	}

	doc.Walk(func(u *legaldoc.Unit) bool {
		id := u.ID()
		idx.byPath[pathKey(doc.PathLabels(u))] = id
		idx.byType[u.Type] = append(idx.byType[u.Type], id)

		for _, token := range Tokenize(u.Text) {
			list := idx.postings[token]
			// The walk is in document order, so a repeated token for the
			// same unit is always at the tail of its posting list.
			if n := len(list); n > 0 && list[n-1].id == id {
				list[n-1].freq++
			} else {
				list = append(list, posting{id: id, freq: 1})
			}
			idx.postings[token] = list
		}
		return true
	})

	return idx
}

// Document returns the document this index was built over.
func (idx *Index) Document() *legaldoc.Document {
	return idx.doc
}

// QueryByPath resolves a citation path to its unit via the path index. It
// returns a *legaldoc.NotFoundError when the path names no unit.
func (idx *Index) QueryByPath(labels []string) (*legaldoc.Unit, error) {
	if id, ok := idx.byPath[pathKey(labels)]; ok {
		return idx.doc.Unit(id), nil
	}
	return nil, &legaldoc.NotFoundError{Path: labels, Segment: firstUnmatched(idx, labels)}
}

// QueryByType returns every unit of the given type in document order. The
// result is empty, never an error, when the document has no such units.
func (idx *Index) QueryByType(t legaldoc.UnitType) []*legaldoc.Unit {
	ids := idx.byType[t]
	units := make([]*legaldoc.Unit, len(ids))
	for i, id := range ids {
		units[i] = idx.doc.Unit(id)
	}
	return units
}

// SearchResult is one full-text hit: a unit and its relevance score.
type SearchResult struct {
	Unit *legaldoc.Unit

	// Score is the summed frequency of the query terms within the unit's
	// own text.
	Score int
}

// SearchText tokenizes terms with the index normalizer and returns the
// units whose text contains any of the tokens, ranked by descending score
// and then by ascending document order. A query with no alphanumeric
// content fails with *InvalidQueryError; a valid query that matches nothing
// returns an empty slice.
func (idx *Index) SearchText(terms string) ([]SearchResult, error) {
	tokens := Tokenize(terms)
	if len(tokens) == 0 {
		return nil, &InvalidQueryError{Query: terms, Reason: "no searchable terms"}
	}

	scores := make(map[int]int)
	for _, token := range tokens {
		for _, p := range idx.postings[token] {
			scores[p.id] += p.freq
		}
	}
	if len(scores) == 0 {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(scores))
	for id, score := range scores {
		results = append(results, SearchResult{Unit: idx.doc.Unit(id), Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Unit.ID() < results[j].Unit.ID()
	})
	return results, nil
}

// Terms returns the number of distinct tokens in the full-text index.
func (idx *Index) Terms() int {
	return len(idx.postings)
}

// pathKey joins path labels into the exact-lookup key.
func pathKey(labels []string) string {
	return strings.Join(labels, pathSep)
}

// firstUnmatched finds the first segment of a failed path lookup that does
// not resolve, so NotFoundError can name it. The whole path was already a
// miss, so this only refines the error message.
func firstUnmatched(idx *Index, labels []string) string {
	for i := range labels {
		if _, ok := idx.byPath[pathKey(labels[:i+1])]; !ok {
			return labels[i]
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1]
}
