package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source supplies raw card names from one external list.
type Source interface {
	// Load returns the names the source holds. Entries it cannot parse
	// are skipped, not errored; Load fails only when the source itself
	// is unreadable.
	Load() ([]string, error)

	// Describe identifies the source in log output.
	Describe() string
}

// FileSource reads names from a single file, dispatching on extension:
// .json for structured lists, anything else as newline-delimited text.
type FileSource string

func (f FileSource) Describe() string { return string(f) }

func (f FileSource) Load() ([]string, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f, err)
	}
	if strings.EqualFold(filepath.Ext(string(f)), ".json") {
		return parseJSONNames(data)
	}
	return parseTextNames(data), nil
}

// DirSources lists the usable name files in a directory: every *.json and
// *.txt entry, sorted for deterministic load order.
func DirSources(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".txt":
			sources = append(sources, FileSource(filepath.Join(dir, e.Name())))
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Describe() < sources[j].Describe()
	})
	return sources, nil
}

// namedRecord is the minimal shape a structured corpus entry must have.
type namedRecord struct {
	Name string `json:"name"`
}

// parseJSONNames accepts the list shapes card databases export: a bare list
// of strings, a list of objects with a "name" field, or a {"data": [...]}
// envelope around either. Elements that match none of these are skipped.
func parseJSONNames(data []byte) ([]string, error) {
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	items := []json.RawMessage{}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Data != nil {
		items = envelope.Data
	} else if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("not a JSON name list: %w", err)
	}

	var names []string
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if name := frontFace(s); name != "" {
				names = append(names, name)
			}
			continue
		}
		var rec namedRecord
		if err := json.Unmarshal(raw, &rec); err == nil && rec.Name != "" {
			if name := frontFace(rec.Name); name != "" {
				names = append(names, name)
			}
		}
		// Anything else is a skippable entry.
	}
	return names, nil
}

// parseTextNames reads one name per line, skipping blanks and # comments.
func parseTextNames(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// frontFace keeps the front face of split and transform card names, which
// list both faces joined by " // " in bulk exports.
func frontFace(name string) string {
	front, _, _ := strings.Cut(name, " // ")
	return strings.TrimSpace(front)
}
