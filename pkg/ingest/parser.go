package ingest

import (
	"bufio"
	"fmt"
	"io"

	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

// Parser converts legislative source text into the flat record sequence
// accepted by legaldoc.Build. It is line oriented: each line either opens a
// structural element or continues the text of the previous one.
type Parser struct {
	classifier *Classifier
}

// NewParser creates a Parser with the default classification patterns.
func NewParser() *Parser {
	return &Parser{classifier: NewClassifier()}
}

// ParseText reads plain text, one potential element per line, and returns
// the records in citation order. Ingestion stops at the ADCT header: the
// transitional act is a separate document. Lines before the first
// recognized element (the preamble and epigraph) are skipped.
func (p *Parser) ParseText(r io.Reader) ([]legaldoc.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return p.ParseLines(lines)
}

// ParseLines classifies each line and assembles the element stream into
// depth-annotated records.
func (p *Parser) ParseLines(lines []string) ([]legaldoc.Record, error) {
	type openUnit struct {
		t     legaldoc.UnitType
		depth int
	}

	var records []legaldoc.Record
	var stack []openUnit

	appendText := func(text string) {
		if text == "" || len(records) == 0 {
			return
		}
		last := &records[len(records)-1]
		if last.Text == "" {
			last.Text = text
		} else {
			last.Text += " " + text
		}
	}

	for _, raw := range lines {
		line := CleanText(raw)
		if line == "" {
			continue
		}
		if p.classifier.IsADCT(line) {
			break
		}
		if p.classifier.IsPreamble(line) {
			continue
		}

		element, ok := p.classifier.Classify(line)
		if !ok {
			// Continuation: heading titles and wrapped unit text attach to
			// the most recent element.
			appendText(line)
			continue
		}

		// Close open units that cannot contain the new element.
		for len(stack) > 0 && !legaldoc.CanContain(stack[len(stack)-1].t, element.Type) {
			stack = stack[:len(stack)-1]
		}

		depth := 1
		if len(stack) > 0 {
			depth = stack[len(stack)-1].depth + 1
		} else if !legaldoc.RootAllowed(element.Type) {
			return nil, fmt.Errorf("dangling %s %q: no open unit can contain it", element.Type, element.Label)
		}

		records = append(records, legaldoc.Record{
			Type:  element.Type,
			Label: element.Label,
			Text:  element.Text,
			Depth: depth,
		})
		stack = append(stack, openUnit{t: element.Type, depth: depth})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no structural elements recognized in input")
	}
	return records, nil
}

// ParseDocument runs ParseText and builds the validated document in one
// step.
func (p *Parser) ParseDocument(title string, r io.Reader) (*legaldoc.Document, error) {
	records, err := p.ParseText(r)
	if err != nil {
		return nil, err
	}
	return legaldoc.Build(title, records)
}
