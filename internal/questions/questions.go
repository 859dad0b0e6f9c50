// Package questions loads the assessment question bank.
package questions

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/pathways/internal/model"
)

// Bank is an immutable, ordered set of questions.
// It is safe for concurrent reads.
type Bank struct {
	questions []model.Question
	byID      map[int]int
	sha256    string
}

// Load reads a question bank from a JSON or YAML file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrDataUnavailable, path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// LoadFS reads a question bank from fsys.
func LoadFS(fsys fs.FS, name string) (*Bank, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrDataUnavailable, name, err)
	}
	return Parse(data, filepath.Ext(name))
}

// Parse decodes and validates a question bank. format is a file extension
// (".json", ".yaml" or ".yml").
func Parse(data []byte, format string) (*Bank, error) {
	var qs []model.Question
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("%w: parse questions: %v", model.ErrDataUnavailable, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &qs); err != nil {
			return nil, fmt.Errorf("%w: parse questions: %v", model.ErrDataUnavailable, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported questions format %q", model.ErrDataUnavailable, format)
	}

	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: question bank is empty", model.ErrDataUnavailable)
	}

	b := &Bank{
		questions: make([]model.Question, 0, len(qs)),
		byID:      make(map[int]int, len(qs)),
	}
	for i, q := range qs {
		if q.ID == 0 {
			q.ID = i + 1
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", model.ErrDataUnavailable, q.ID)
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("%w: question %d has no prompt", model.ErrDataUnavailable, q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d has no options", model.ErrDataUnavailable, q.ID)
		}
		opts := make([]model.Option, len(q.Options))
		for j, o := range q.Options {
			o.Category = model.Category(strings.ToUpper(strings.TrimSpace(string(o.Category))))
			if !o.Category.Valid() {
				return nil, fmt.Errorf("%w: question %d option %d: %v %q",
					model.ErrDataUnavailable, q.ID, j+1, model.ErrInvalidCategory, string(o.Category))
			}
			opts[j] = o
		}
		q.Options = opts
		b.byID[q.ID] = len(b.questions)
		b.questions = append(b.questions, q)
	}

	sum := sha256.Sum256(data)
	b.sha256 = hex.EncodeToString(sum[:])
	return b, nil
}

// Questions returns the questions in file order. Callers must not modify the result.
func (b *Bank) Questions() []model.Question {
	return b.questions
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Get returns the question with the given ID.
func (b *Bank) Get(id int) (model.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return model.Question{}, false
	}
	return b.questions[i], true
}

// SHA256 returns the hex digest of the source data.
func (b *Bank) SHA256() string {
	return b.sha256
}

// FieldName is the form field carrying the answer to question id.
func FieldName(id int) string {
	return "q" + strconv.Itoa(id)
}

// Answers collects submitted answer values in question order. get is
// typically (*http.Request).PostFormValue. Unanswered questions are skipped.
func (b *Bank) Answers(get func(key string) string) []string {
	var out []string
	for _, q := range b.questions {
		if v := get(FieldName(q.ID)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
