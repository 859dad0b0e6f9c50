package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/pathways/internal/data"
	"github.com/pavelanni/pathways/internal/model"
)

const sampleJSON = `[
  {"prompt": "Pick one", "options": [{"label": "Fix it", "category": "r"}, {"label": "Study it", "category": "I"}]},
  {"id": 7, "prompt": "Another", "options": [{"label": "Sell it", "category": "E"}]}
]`

func TestParseJSON(t *testing.T) {
	b, err := Parse([]byte(sampleJSON), ".json")
	require.NoError(t, err)

	require.Equal(t, 2, b.Len())
	qs := b.Questions()
	assert.Equal(t, 1, qs[0].ID, "missing id defaults to position")
	assert.Equal(t, 7, qs[1].ID)
	assert.Equal(t, model.Realistic, qs[0].Options[0].Category, "category is normalized")

	q, ok := b.Get(7)
	require.True(t, ok)
	assert.Equal(t, "Another", q.Prompt)

	_, ok = b.Get(99)
	assert.False(t, ok)
	assert.Len(t, b.SHA256(), 64)
}

func TestParseRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"syntax error", `[{`, "json"},
		{"empty bank", `[]`, "json"},
		{"no prompt", `[{"options":[{"label":"x","category":"R"}]}]`, "json"},
		{"no options", `[{"prompt":"p"}]`, "json"},
		{"bad category", `[{"prompt":"p","options":[{"label":"x","category":"Z"}]}]`, "json"},
		{"duplicate id", `[{"id":1,"prompt":"p","options":[{"label":"x","category":"R"}]},{"id":1,"prompt":"q","options":[{"label":"y","category":"I"}]}]`, "json"},
		{"unsupported format", `whatever`, "toml"},
		{"bad yaml", "- prompt: [unterminated", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, model.ErrDataUnavailable)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
}

func TestEmbeddedBank(t *testing.T) {
	b, err := LoadFS(data.FS, data.QuestionsFile)
	require.NoError(t, err)
	require.NotZero(t, b.Len())

	for _, q := range b.Questions() {
		seen := map[model.Category]bool{}
		for _, o := range q.Options {
			seen[o.Category] = true
		}
		assert.Len(t, seen, len(model.Categories), "question %d should offer every category", q.ID)
	}
}

func TestAnswers(t *testing.T) {
	b, err := Parse([]byte(sampleJSON), "json")
	require.NoError(t, err)

	form := map[string]string{"q7": "E", "q1": "R", "q99": "C"}
	got := b.Answers(func(k string) string { return form[k] })
	assert.Equal(t, []string{"R", "E"}, got)

	got = b.Answers(func(string) string { return "" })
	assert.Empty(t, got)
}
