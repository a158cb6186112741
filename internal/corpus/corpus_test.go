package corpus

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeCorpusDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	// Structured list with objects, a split card, and junk entries.
	oracle := `[
		{"name": "Lightning Bolt"},
		{"name": "Fire // Ice"},
		{"name": "Sol Ring"},
		{"id": 42},
		17,
		{"name": ""}
	]`
	// Envelope shape used by bulk exports.
	bulk := `{"data": [{"name": "Counterspell"}, {"name": "Sol Ring"}]}`
	// Plain text with comments and blanks.
	plain := "# staples\nSwords to Plowshares\n\nLightning Bolt\n"
	// A file that is not a name list at all.
	junk := `{"oops": true}`

	for name, body := range map[string]string{
		"oracle.json": oracle,
		"bulk.json":   bulk,
		"cards.txt":   plain,
		"junk.json":   junk,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func loadedCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := NewFromDir(writeCorpusDir(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLoadDedupesSortsAndSkipsJunk(t *testing.T) {
	c := loadedCorpus(t)
	want := []string{
		"Counterspell",
		"Fire",
		"Lightning Bolt",
		"Sol Ring",
		"Swords to Plowshares",
	}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("loaded %d names %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMatchToleratesOCRNoise(t *testing.T) {
	c := loadedCorpus(t)

	res, ok := c.Match("Lighming Bclt", 70)
	if !ok {
		t.Fatal("noisy OCR text did not match at threshold 70")
	}
	if res.Name != "Lightning Bolt" {
		t.Errorf("matched %q, want Lightning Bolt", res.Name)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		t.Errorf("confidence %g outside [0,1]", res.Confidence)
	}
	if res.Confidence < 0.70 {
		t.Errorf("confidence %g below accepted threshold", res.Confidence)
	}

	// The same text against a strict threshold must return no match.
	if _, ok := c.Match("Lighming Bclt", 95); ok {
		t.Error("noisy text matched at threshold 95")
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	c := loadedCorpus(t)
	if _, ok := c.Match("", 70); ok {
		t.Error("empty text matched")
	}

	empty := New(nil)
	if _, ok := empty.Match("Lightning Bolt", 70); ok {
		t.Error("empty corpus matched")
	}
}

func TestMatchExactName(t *testing.T) {
	c := loadedCorpus(t)
	res, ok := c.Match("Sol Ring", 70)
	if !ok || res.Name != "Sol Ring" {
		t.Fatalf("exact name match = %+v, %v", res, ok)
	}
	if res.Confidence != 1.0 {
		t.Errorf("exact match confidence %g, want 1.0", res.Confidence)
	}
}

func TestMatchTieBreakIsLexicographic(t *testing.T) {
	// Both entries normalize to the same string under the matcher's
	// case-folding, so they score identically; the sorted scan must keep
	// the lexicographically smaller one.
	c := New(nil, stubSource{"SOL RING", "Sol Ring"})
	res, ok := c.Match("sol ring", 70)
	if !ok {
		t.Fatal("no match")
	}
	if res.Name != "SOL RING" {
		t.Errorf("tie resolved to %q, want SOL RING (lexicographically first)", res.Name)
	}
}

func TestSearchLimitAndDeterminism(t *testing.T) {
	c := loadedCorpus(t)

	got := c.Search("ring", 3)
	if len(got) > 3 {
		t.Fatalf("Search returned %d names, limit 3", len(got))
	}
	if len(got) == 0 || got[0] != "Sol Ring" {
		t.Errorf("Search top result = %v, want Sol Ring first", got)
	}

	// Search ignores the match threshold entirely: even nonsense returns
	// ranked candidates.
	if got := c.Search("zzzzqqq", 2); len(got) != 2 {
		t.Errorf("thresholdless search returned %d names, want 2", len(got))
	}

	// Deterministic across calls.
	a := c.Search("fire", 5)
	b := c.Search("fire", 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Search not deterministic: %v vs %v", a, b)
		}
	}

	if got := c.Search("", 5); got != nil {
		t.Errorf("empty query returned %v", got)
	}
	if got := c.Search("ring", 0); got != nil {
		t.Errorf("zero limit returned %v", got)
	}
}

func TestConcurrentFirstAccessLoadsOnce(t *testing.T) {
	counting := &countingSource{names: []string{"Lightning Bolt", "Sol Ring"}}
	c := New(nil, counting)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if n := c.Len(); n != 2 {
				t.Errorf("Len = %d, want 2", n)
			}
			if _, ok := c.Match("Sol Ring", 70); !ok {
				t.Error("match failed during concurrent access")
			}
		}()
	}
	wg.Wait()

	if counting.loads != 1 {
		t.Errorf("source loaded %d times, want exactly 1", counting.loads)
	}
}

// stubSource serves a fixed name list.
type stubSource []string

func (s stubSource) Load() ([]string, error) { return s, nil }
func (s stubSource) Describe() string        { return "stub" }

// countingSource counts Load invocations to verify exactly-once semantics.
type countingSource struct {
	names []string
	loads int
}

func (s *countingSource) Load() ([]string, error) {
	s.loads++
	return s.names, nil
}

func (s *countingSource) Describe() string { return "counting" }
