// Package matcher resolves result codes to suggested majors and careers.
package matcher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/pathways/internal/model"
)

const maxKeyLen = 3

// Matcher is a read-only match table keyed by code or code prefix.
type Matcher struct {
	entries map[string]model.MatchEntry
	sha256  string
}

type entryFile struct {
	Majors  []string `json:"majors" yaml:"majors"`
	Careers []string `json:"careers" yaml:"careers"`
}

// New builds a Matcher from entries. Keys are upper-cased and must be
// one to three valid category letters.
func New(entries []model.MatchEntry) (*Matcher, error) {
	m := &Matcher{entries: make(map[string]model.MatchEntry, len(entries))}
	for _, e := range entries {
		key := strings.ToUpper(strings.TrimSpace(e.Code))
		if err := validateKey(key); err != nil {
			return nil, err
		}
		if _, dup := m.entries[key]; dup {
			return nil, fmt.Errorf("%w: duplicate match key %q", model.ErrDataUnavailable, key)
		}
		e.Code = key
		m.entries[key] = e
	}
	return m, nil
}

func validateKey(key string) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("%w: match key %q must have 1 to %d letters", model.ErrDataUnavailable, key, maxKeyLen)
	}
	for _, r := range key {
		if !model.Category(string(r)).Valid() {
			return fmt.Errorf("%w: match key %q: %v", model.ErrDataUnavailable, key, model.ErrInvalidCategory)
		}
	}
	return nil
}

// Load reads a match table from a JSON or YAML file.
func Load(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrDataUnavailable, path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// LoadFS reads a match table from fsys.
func LoadFS(fsys fs.FS, name string) (*Matcher, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrDataUnavailable, name, err)
	}
	return Parse(data, filepath.Ext(name))
}

// Parse decodes a mapping of code to {majors, careers}.
func Parse(data []byte, format string) (*Matcher, error) {
	raw := map[string]entryFile{}
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse matches: %v", model.ErrDataUnavailable, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse matches: %v", model.ErrDataUnavailable, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported matches format %q", model.ErrDataUnavailable, format)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]model.MatchEntry, 0, len(raw))
	for _, k := range keys {
		entries = append(entries, model.MatchEntry{Code: k, Majors: raw[k].Majors, Careers: raw[k].Careers})
	}
	m, err := New(entries)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	m.sha256 = hex.EncodeToString(sum[:])
	return m, nil
}

// Lookup returns the entry for code: the exact key if present, otherwise the
// longest key that is a prefix of code.
func (m *Matcher) Lookup(code model.Code) (model.MatchEntry, bool) {
	key := strings.ToUpper(strings.TrimSpace(string(code)))
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	for n := len(key); n > 0; n-- {
		if e, ok := m.entries[key[:n]]; ok {
			return e, true
		}
	}
	return model.MatchEntry{}, false
}

// MatchMajors returns suggested majors for code. It never returns nil.
func (m *Matcher) MatchMajors(code model.Code) []string {
	e, _ := m.Lookup(code)
	return clone(e.Majors)
}

// MatchCareers returns suggested careers for code. It never returns nil.
func (m *Matcher) MatchCareers(code model.Code) []string {
	e, _ := m.Lookup(code)
	return clone(e.Careers)
}

// Len returns the number of entries.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// SHA256 returns the hex digest of the source data, if loaded from bytes.
func (m *Matcher) SHA256() string {
	return m.sha256
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
