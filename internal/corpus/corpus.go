// Package corpus holds the universe of known card names and answers
// approximate-match queries against it. The name set loads lazily, exactly
// once per Corpus, and is immutable afterwards, so any number of concurrent
// pipeline invocations can query it without locking.
package corpus

import (
	"math"
	"sort"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/cubecheck/cardscan/internal/diag"
)

// DefaultThreshold is the acceptance score (0-100 scale) below which a best
// match is reported as no match.
const DefaultThreshold = 70

// MatchResult names the best-scoring corpus entry for an OCR string.
type MatchResult struct {
	// Name is the matched corpus entry.
	Name string `json:"name"`

	// Confidence is the match score normalized to [0, 1].
	Confidence float64 `json:"confidence"`
}

// Corpus is the lazily loaded, deduplicated, sorted card name set.
type Corpus struct {
	sources []Source
	log     diag.Logger

	once  sync.Once
	names []string // sorted, unique; never mutated after load
}

// New builds a Corpus over the given sources. Nothing is read until the
// first query. A nil logger discards diagnostics.
func New(log diag.Logger, sources ...Source) *Corpus {
	if log == nil {
		log = diag.Nop{}
	}
	return &Corpus{sources: sources, log: log}
}

// NewFromDir builds a Corpus over every usable name file in dir.
func NewFromDir(dir string, log diag.Logger) (*Corpus, error) {
	sources, err := DirSources(dir)
	if err != nil {
		return nil, err
	}
	return New(log, sources...), nil
}

// EnsureLoaded loads the name set if it has not been loaded yet. Concurrent
// first callers block until the single load finishes; nobody observes a
// partially loaded corpus. A source that fails to read is logged and
// skipped, matching the posture for unparsable entries.
func (c *Corpus) EnsureLoaded() {
	c.once.Do(c.load)
}

func (c *Corpus) load() {
	seen := make(map[string]struct{})
	for _, src := range c.sources {
		names, err := src.Load()
		if err != nil {
			c.log.Warnf("corpus: skipping source %s: %v", src.Describe(), err)
			continue
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
		c.log.Infof("corpus: loaded %d name(s) from %s", len(names), src.Describe())
	}

	c.names = make([]string, 0, len(seen))
	for name := range seen {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	c.log.Infof("corpus: %d unique name(s)", len(c.names))
}

// Names returns the loaded name set. The returned slice is shared and must
// not be modified.
func (c *Corpus) Names() []string {
	c.EnsureLoaded()
	return c.names
}

// Len returns the number of loaded names.
func (c *Corpus) Len() int {
	return len(c.Names())
}

// Match finds the corpus entry best matching an OCR string, using a weighted
// ratio tolerant of partial substrings and token-order noise. It returns
// false when text is empty, the corpus is empty, or the best score falls
// below threshold (0-100 scale; non-positive means DefaultThreshold).
//
// Tie-break: the scan keeps the first strictly higher score over the sorted
// name set, so among equal top scores the lexicographically smallest name
// wins.
func (c *Corpus) Match(text string, threshold int) (MatchResult, bool) {
	if text == "" {
		return MatchResult{}, false
	}
	names := c.Names()
	if len(names) == 0 {
		return MatchResult{}, false
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	bestScore := -1
	bestName := ""
	for _, name := range names {
		if score := fuzzy.WRatio(text, name); score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestScore < threshold {
		return MatchResult{}, false
	}
	return MatchResult{
		Name:       bestName,
		Confidence: math.Round(float64(bestScore)/100*1000) / 1000,
	}, true
}

// Search returns up to limit corpus names ranked by match score against
// query, for interactive autocomplete. No threshold applies; ranking ties
// resolve lexicographically so results are deterministic.
func (c *Corpus) Search(query string, limit int) []string {
	if query == "" || limit <= 0 {
		return nil
	}
	names := c.Names()
	if len(names) == 0 {
		return nil
	}

	type scored struct {
		name  string
		score int
	}
	ranked := make([]scored, len(names))
	for i, name := range names {
		ranked[i] = scored{name: name, score: fuzzy.WRatio(query, name)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = ranked[i].name
	}
	return out
}
