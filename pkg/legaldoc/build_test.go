package legaldoc

import (
	"errors"
	"testing"
)

// constitutionRecords is a small slice of the 1988 Constitution used across
// the package tests.
func constitutionRecords() []Record {
	return []Record{
		{Type: Title, Label: "Título I", Text: "Dos Princípios Fundamentais", Depth: 1},
		{Type: Article, Label: "Art. 1º", Text: "A República Federativa do Brasil constitui-se em Estado Democrático de Direito.", Depth: 2},
		{Type: Clause, Label: "Inciso I", Text: "a soberania", Depth: 3},
		{Type: Clause, Label: "Inciso II", Text: "a cidadania", Depth: 3},
		{Type: Paragraph, Label: "Parágrafo único", Text: "Todo o poder emana do povo.", Depth: 3},
		{Type: Article, Label: "Art. 2º", Text: "São Poderes da União o Legislativo, o Executivo e o Judiciário.", Depth: 2},
		{Type: Title, Label: "Título II", Text: "Dos Direitos e Garantias Fundamentais", Depth: 1},
		{Type: Chapter, Label: "Capítulo I", Text: "Dos Direitos e Deveres Individuais e Coletivos", Depth: 2},
		{Type: Article, Label: "Art. 5º", Text: "Todos são iguais perante a lei.", Depth: 3},
		{Type: Clause, Label: "Inciso I", Text: "homens e mulheres são iguais em direitos e obrigações", Depth: 4},
		{Type: Clause, Label: "Inciso II", Text: "ninguém será obrigado a fazer ou deixar de fazer alguma coisa senão em virtude de lei", Depth: 4},
		{Type: Item, Label: "a)", Text: "alínea de exemplo", Depth: 5},
	}
}

func TestBuild_Constitution(t *testing.T) {
	doc, err := Build("Constituição Federal", constitutionRecords())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if doc.Title() != "Constituição Federal" {
		t.Errorf("Title: got %q, want %q", doc.Title(), "Constituição Federal")
	}
	if doc.Len() != 12 {
		t.Errorf("Len: got %d, want 12", doc.Len())
	}

	top := doc.TopLevel()
	if len(top) != 2 {
		t.Fatalf("TopLevel: got %d units, want 2", len(top))
	}
	if top[0].Label != "Título I" || top[1].Label != "Título II" {
		t.Errorf("TopLevel labels: got %q, %q", top[0].Label, top[1].Label)
	}
}

func TestBuild_MinimalDocument(t *testing.T) {
	records := []Record{
		{Type: Title, Label: "Título I", Depth: 1},
		{Type: Article, Label: "Art. 1º", Text: "Todo poder emana do povo", Depth: 2},
	}

	doc, err := Build("Constituição", records)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	art, err := doc.FindByPath([]string{"Título I", "Art. 1º"})
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}

	labels := doc.PathLabels(art)
	if len(labels) != 2 || labels[0] != "Título I" || labels[1] != "Art. 1º" {
		t.Errorf("PathLabels: got %v, want [Título I, Art. 1º]", labels)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	_, err := Build("empty", nil)
	if err == nil {
		t.Fatal("Build accepted empty input")
	}

	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
	if serr.Record != -1 {
		t.Errorf("Record: got %d, want -1", serr.Record)
	}
}

func TestBuild_GrammarViolations(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{
			name: "item directly under title",
			records: []Record{
				{Type: Title, Label: "Título I", Depth: 1},
				{Type: Item, Label: "a)", Text: "alínea solta", Depth: 2},
			},
		},
		{
			name: "paragraph at top level",
			records: []Record{
				{Type: Paragraph, Label: "§ 1º", Text: "parágrafo sem artigo", Depth: 1},
			},
		},
		{
			name: "article under article",
			records: []Record{
				{Type: Article, Label: "Art. 1º", Depth: 1},
				{Type: Article, Label: "Art. 2º", Depth: 2},
			},
		},
		{
			name: "item under item",
			records: []Record{
				{Type: Article, Label: "Art. 1º", Depth: 1},
				{Type: Clause, Label: "Inciso I", Depth: 2},
				{Type: Item, Label: "a)", Depth: 3},
				{Type: Item, Label: "b)", Depth: 4},
			},
		},
		{
			name: "subsection containing chapter",
			records: []Record{
				{Type: Chapter, Label: "Capítulo I", Depth: 1},
				{Type: Section, Label: "Seção I", Depth: 2},
				{Type: Subsection, Label: "Subseção I", Depth: 3},
				{Type: Chapter, Label: "Capítulo II", Depth: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("doc", tt.records)
			var serr *StructuralError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *StructuralError, got %T: %v", err, err)
			}
		})
	}
}

func TestBuild_MalformedDepths(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{
			name: "first record below depth 1",
			records: []Record{
				{Type: Title, Label: "Título I", Depth: 0},
			},
		},
		{
			name: "depth jumps two levels",
			records: []Record{
				{Type: Title, Label: "Título I", Depth: 1},
				{Type: Clause, Label: "Inciso I", Depth: 3},
			},
		},
		{
			name: "first record deeper than 1",
			records: []Record{
				{Type: Article, Label: "Art. 1º", Depth: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("doc", tt.records)
			var serr *StructuralError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *StructuralError, got %T: %v", err, err)
			}
		})
	}
}

func TestBuild_MissingLabel(t *testing.T) {
	_, err := Build("doc", []Record{{Type: Title, Depth: 1}})
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StructuralError, got %T: %v", err, err)
	}
}

func TestBuild_DuplicateSiblingLabel(t *testing.T) {
	records := []Record{
		{Type: Title, Label: "Título I", Depth: 1},
		{Type: Article, Label: "Art. 1º", Depth: 2},
		{Type: Article, Label: "Art. 1º", Depth: 2},
	}

	_, err := Build("doc", records)
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StructuralError for duplicate sibling label, got %T: %v", err, err)
	}
}

func TestBuild_SameLabelUnderDifferentParents(t *testing.T) {
	// Two articles labeled "Art. 1º" under different titles are legal:
	// their full citation paths differ.
	records := []Record{
		{Type: Title, Label: "Título I", Depth: 1},
		{Type: Article, Label: "Art. 1º", Text: "primeiro", Depth: 2},
		{Type: Title, Label: "Título II", Depth: 1},
		{Type: Article, Label: "Art. 1º", Text: "segundo", Depth: 2},
	}

	doc, err := Build("doc", records)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	first, err := doc.FindByPath([]string{"Título I", "Art. 1º"})
	if err != nil {
		t.Fatalf("FindByPath(Título I) failed: %v", err)
	}
	second, err := doc.FindByPath([]string{"Título II", "Art. 1º"})
	if err != nil {
		t.Fatalf("FindByPath(Título II) failed: %v", err)
	}

	if first == second {
		t.Error("expected distinct units for the same label under different parents")
	}
	if first.Text != "primeiro" || second.Text != "segundo" {
		t.Errorf("texts: got %q and %q", first.Text, second.Text)
	}
}

func TestBuild_Ordinals(t *testing.T) {
	doc, err := Build("Constituição Federal", constitutionRecords())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	art1, err := doc.FindByPath([]string{"Título I", "Art. 1º"})
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}
	art2, err := doc.FindByPath([]string{"Título I", "Art. 2º"})
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}
	para, err := doc.FindByPath([]string{"Título I", "Art. 1º", "Parágrafo único"})
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}

	if art1.Ordinal != 1 {
		t.Errorf("Art. 1º ordinal: got %d, want 1", art1.Ordinal)
	}
	if art2.Ordinal != 2 {
		t.Errorf("Art. 2º ordinal: got %d, want 2", art2.Ordinal)
	}
	// Ordinals count same-type siblings only: the paragraph follows two
	// incisos but is the first paragraph under the article.
	if para.Ordinal != 1 {
		t.Errorf("Parágrafo único ordinal: got %d, want 1", para.Ordinal)
	}
}

func TestBuild_UniqueCitationPaths(t *testing.T) {
	doc, err := Build("Constituição Federal", constitutionRecords())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	seen := make(map[string]bool)
	doc.Walk(func(u *Unit) bool {
		citation := doc.Citation(u)
		if seen[citation] {
			t.Errorf("duplicate citation path: %q", citation)
		}
		seen[citation] = true
		return true
	})

	if len(seen) != doc.Len() {
		t.Errorf("unique paths: got %d, want %d", len(seen), doc.Len())
	}
}
