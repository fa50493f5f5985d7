// Package ingest turns raw legislative source text, plain lines or planalto
// HTML pages, into the flat record sequence consumed by legaldoc.Build.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

// Element is one classified line of source text: the structural unit it
// opens plus the text that belongs to it.
type Element struct {
	// Type is the structural kind the line opens.
	Type legaldoc.UnitType

	// Label is the canonical citation token built from the line, e.g.
	// "Art. 5º" or "Inciso II".
	Label string

	// Text is the content carried on the line itself, heading keywords and
	// numbering stripped.
	Text string
}

// Classifier recognizes the structural elements of Brazilian legislative
// drafting in running text.
type Classifier struct {
	article    *regexp.Regexp
	paragraph  *regexp.Regexp
	singlePara *regexp.Regexp
	clause     *regexp.Regexp
	item       *regexp.Regexp
	heading    *regexp.Regexp
	adct       *regexp.Regexp
	preamble   *regexp.Regexp
}

// NewClassifier compiles the recognition patterns.
func NewClassifier() *Classifier {
	return &Classifier{
		// "Art. 5º", "Art. 5o", "Art. 102" at the start of a line.
		article: regexp.MustCompile(`^Art\.\s*(\d+)[ºo°]?\s*[-–.]?\s*(.*)$`),
		// "§ 1º texto" or "§ 2o texto".
		paragraph: regexp.MustCompile(`^§\s*(\d+)[ºo°]?\s*[-–.]?\s*(.*)$`),
		// "Parágrafo único. texto"
		singlePara: regexp.MustCompile(`(?i)^parágrafo\s+único\s*[-–.]?\s*(.*)$`),
		// "II - texto" (inciso: Roman numeral, dash).
		clause: regexp.MustCompile(`^([IVXLCDM]+)\s*[-–]\s*(.*)$`),
		// "a) texto" (alínea).
		item: regexp.MustCompile(`^([a-z])\)\s*(.*)$`),
		// Structural headings are set in full caps: "TÍTULO I", "CAPÍTULO IV",
		// "SEÇÃO II", "SUBSEÇÃO I".
		heading: regexp.MustCompile(`^(T[IÍ]TULO|CAP[IÍ]TULO|SE[CÇ][AÃ]O|SUBSE[CÇ][AÃ]O|LIVRO)\s+([IVXLCDM]+)\s*[-–]?\s*(.*)$`),
		adct:    regexp.MustCompile(`(?i)ATO\s+DAS\s+DISPOSI[CÇ][OÕ]ES\s+CONSTITUCIONAIS\s+TRANSIT[OÓ]RIAS`),
		preamble: regexp.MustCompile(`(?i)^pre[aâ]mbulo$`),
	}
}

// headingType maps an uppercase heading keyword, with or without its
// accents, to the unit type it opens.
func headingType(keyword string) (legaldoc.UnitType, bool) {
	switch strings.ToUpper(keyword) {
	case "LIVRO":
		return legaldoc.Book, true
	case "TITULO", "TÍTULO":
		return legaldoc.Title, true
	case "CAPITULO", "CAPÍTULO":
		return legaldoc.Chapter, true
	case "SECAO", "SEÇAO", "SECÃO", "SEÇÃO":
		return legaldoc.Section, true
	case "SUBSECAO", "SUBSEÇAO", "SUBSECÃO", "SUBSEÇÃO":
		return legaldoc.Subsection, true
	}
	return 0, false
}

// IsADCT reports whether the line is the header of the transitional
// provisions act (ADCT), where structural ingestion stops.
func (c *Classifier) IsADCT(line string) bool {
	return c.adct.MatchString(line)
}

// IsPreamble reports whether the line is the preamble heading.
func (c *Classifier) IsPreamble(line string) bool {
	return c.preamble.MatchString(line)
}

// Classify recognizes the structural element a line opens. It returns false
// when the line is continuation text belonging to the previous element.
func (c *Classifier) Classify(line string) (Element, bool) {
	line = CleanText(line)
	if line == "" {
		return Element{}, false
	}

	if m := c.heading.FindStringSubmatch(line); m != nil {
		if t, ok := headingType(m[1]); ok && IsRoman(m[2]) {
			return Element{
				Type:  t,
				Label: headingLabel(t, m[2]),
				Text:  strings.TrimSpace(m[3]),
			}, true
		}
	}

	if m := c.article.FindStringSubmatch(line); m != nil {
		return Element{
			Type:  legaldoc.Article,
			Label: ArticleLabel(atoi(m[1])),
			Text:  strings.TrimSpace(m[2]),
		}, true
	}

	if m := c.singlePara.FindStringSubmatch(line); m != nil {
		return Element{
			Type:  legaldoc.Paragraph,
			Label: "Parágrafo único",
			Text:  strings.TrimSpace(m[1]),
		}, true
	}

	if m := c.paragraph.FindStringSubmatch(line); m != nil {
		return Element{
			Type:  legaldoc.Paragraph,
			Label: ParagraphLabel(atoi(m[1])),
			Text:  strings.TrimSpace(m[2]),
		}, true
	}

	if m := c.clause.FindStringSubmatch(line); m != nil && IsRoman(m[1]) {
		return Element{
			Type:  legaldoc.Clause,
			Label: "Inciso " + m[1],
			Text:  strings.TrimSpace(m[2]),
		}, true
	}

	if m := c.item.FindStringSubmatch(line); m != nil {
		return Element{
			Type:  legaldoc.Item,
			Label: m[1] + ")",
			Text:  strings.TrimSpace(m[2]),
		}, true
	}

	return Element{}, false
}

// headingLabel builds the citation token of a structural heading.
func headingLabel(t legaldoc.UnitType, roman string) string {
	switch t {
	case legaldoc.Book:
		return "Livro " + roman
	case legaldoc.Title:
		return "Título " + roman
	case legaldoc.Chapter:
		return "Capítulo " + roman
	case legaldoc.Section:
		return "Seção " + roman
	case legaldoc.Subsection:
		return "Subseção " + roman
	}
	return roman
}

// ArticleLabel renders an article citation token. Drafting convention uses
// the ordinal indicator through Art. 9º and cardinals from Art. 10 on.
func ArticleLabel(n int) string {
	if n < 10 {
		return fmt.Sprintf("Art. %dº", n)
	}
	return fmt.Sprintf("Art. %d", n)
}

// ParagraphLabel renders a numbered paragraph citation token, "§ 1º"
// through "§ 9º", then "§ 10" on.
func ParagraphLabel(n int) string {
	if n < 10 {
		return fmt.Sprintf("§ %dº", n)
	}
	return fmt.Sprintf("§ %d", n)
}

// CleanText collapses all whitespace runs, including non-breaking spaces
// and zero-width characters from the planalto pages, into single spaces.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '\u200b', '\ufeff':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// atoi converts a digit string to int; the classifier regexps guarantee the
// input is all digits.
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
