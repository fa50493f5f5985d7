package ingest

import (
	"strings"
	"testing"
)

// FuzzClassify checks that classification never panics and that any element
// it produces carries a usable label.
func FuzzClassify(f *testing.F) {
	seeds := []string{
		"TÍTULO I",
		"CAPÍTULO IV DO PODER JUDICIÁRIO",
		"Art. 5º Todos são iguais perante a lei.",
		"§ 2º Texto.",
		"Parágrafo único. Texto.",
		"II - a cidadania;",
		"a) alínea;",
		"texto corrido",
		"",
		"Art.",
		"§",
		"MMMM - excesso romano",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	classifier := NewClassifier()

	f.Fuzz(func(t *testing.T, line string) {
		element, ok := classifier.Classify(line)
		if !ok {
			return
		}
		if element.Label == "" {
			t.Errorf("classified %q with empty label", line)
		}
		if !element.Type.Valid() {
			t.Errorf("classified %q with invalid type %d", line, int(element.Type))
		}
		if element.Text != strings.TrimSpace(element.Text) {
			t.Errorf("untrimmed text %q from %q", element.Text, line)
		}
	})
}

// FuzzParseLines checks that arbitrary line sequences either parse into
// records that legaldoc.Build accepts or fail with an explicit error, and
// never panic.
func FuzzParseLines(f *testing.F) {
	f.Add("TÍTULO I\nArt. 1º Texto.\nI - inciso;")
	f.Add("Art. 1º Texto.\n§ 1º Par.\na) solta")
	f.Add("I - inciso sem artigo")
	f.Add("")

	parser := NewParser()

	f.Fuzz(func(t *testing.T, input string) {
		records, err := parser.ParseLines(strings.Split(input, "\n"))
		if err != nil {
			return
		}
		if len(records) == 0 {
			t.Error("ParseLines returned no records and no error")
		}
		for i, rec := range records {
			if rec.Depth < 1 {
				t.Errorf("record %d has depth %d", i, rec.Depth)
			}
			if rec.Label == "" {
				t.Errorf("record %d has no label", i)
			}
		}
	})
}
