package legaldoc

// DocumentStats holds per-type unit counts for a document.
type DocumentStats struct {
	Books       int `json:"books"`
	Titles      int `json:"titles"`
	Chapters    int `json:"chapters"`
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Articles    int `json:"articles"`
	Paragraphs  int `json:"paragraphs"`
	Clauses     int `json:"clauses"`
	Items       int `json:"items"`
	Total       int `json:"total"`
}

// Stats counts the units of each type in a single walk over the document.
func Stats(doc *Document) DocumentStats {
	var stats DocumentStats
	if doc == nil {
		return stats
	}

	doc.Walk(func(u *Unit) bool {
		switch u.Type {
		case Book:
			stats.Books++
		case Title:
			stats.Titles++
		case Chapter:
			stats.Chapters++
		case Section:
			stats.Sections++
		case Subsection:
			stats.Subsections++
		case Article:
			stats.Articles++
		case Paragraph:
			stats.Paragraphs++
		case Clause:
			stats.Clauses++
		case Item:
			stats.Items++
		}
		stats.Total++
		return true
	})

	return stats
}
