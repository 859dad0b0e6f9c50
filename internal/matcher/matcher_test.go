package matcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/pathways/internal/data"
	"github.com/pavelanni/pathways/internal/model"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := New([]model.MatchEntry{
		{Code: "R", Majors: []string{"Welding"}, Careers: []string{"Welder"}},
		{Code: "ri", Majors: []string{"Engineering"}, Careers: []string{"Engineer"}},
		{Code: "RIA", Majors: []string{"Architecture"}, Careers: []string{"Architect"}},
		{Code: "S", Majors: []string{"Nursing"}},
	})
	require.NoError(t, err)
	return m
}

func TestLookup(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		code    model.Code
		wantKey string
		found   bool
	}{
		{"RIA", "RIA", true},
		{"RIS", "RI", true},
		{"RSE", "R", true},
		{"ria", "RIA", true},
		{"SEC", "S", true},
		{"CEA", "", false},
		{"", "", false},
		{"XYZ", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			e, ok := m.Lookup(tt.code)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantKey, e.Code)
		})
	}
}

func TestMatchMajorsAndCareers(t *testing.T) {
	m := newTestMatcher(t)

	assert.Equal(t, []string{"Architecture"}, m.MatchMajors("RIA"))
	assert.Equal(t, []string{"Engineer"}, m.MatchCareers("RIE"))

	t.Run("unknown code yields empty, non-nil", func(t *testing.T) {
		majors := m.MatchMajors("CEA")
		careers := m.MatchCareers("CEA")
		assert.NotNil(t, majors)
		assert.NotNil(t, careers)
		assert.Empty(t, majors)
		assert.Empty(t, careers)
	})

	t.Run("entry without careers", func(t *testing.T) {
		assert.Empty(t, m.MatchCareers("SAE"))
		assert.NotNil(t, m.MatchCareers("SAE"))
	})

	t.Run("results are copies", func(t *testing.T) {
		majors := m.MatchMajors("RIA")
		majors[0] = "changed"
		assert.Equal(t, []string{"Architecture"}, m.MatchMajors("RIA"))
	})
}

func TestNewRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.MatchEntry
	}{
		{"empty key", []model.MatchEntry{{Code: ""}}},
		{"too long", []model.MatchEntry{{Code: "RIAS"}}},
		{"invalid letter", []model.MatchEntry{{Code: "RX"}}},
		{"duplicate after normalizing", []model.MatchEntry{{Code: "ri"}, {Code: "RI"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			assert.ErrorIs(t, err, model.ErrDataUnavailable)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		m, err := Parse([]byte(`{"AE":{"majors":["Journalism"],"careers":["Reporter"]}}`), ".json")
		require.NoError(t, err)
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, []string{"Reporter"}, m.MatchCareers("AES"))
		assert.Len(t, m.SHA256(), 64)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Parse([]byte(`{`), ".json")
		assert.ErrorIs(t, err, model.ErrDataUnavailable)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Parse([]byte(`x`), ".csv")
		assert.ErrorIs(t, err, model.ErrDataUnavailable)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, model.ErrDataUnavailable)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "matches.yml")
		require.NoError(t, os.WriteFile(path, []byte("C:\n  majors: [Accounting]\n  careers: [Bookkeeper]\n"), 0o644))
		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Accounting"}, m.MatchMajors("CRI"))
	})
}

func TestEmbeddedTableCoversEveryLeadingLetter(t *testing.T) {
	m, err := LoadFS(data.FS, data.MatchesFile)
	require.NoError(t, err)

	for _, c := range model.Categories {
		code := model.Code(string(c) + "XX")
		assert.NotEmpty(t, m.MatchMajors(code), "no majors for leading %s", c)
		assert.NotEmpty(t, m.MatchCareers(code), "no careers for leading %s", c)
	}
}
