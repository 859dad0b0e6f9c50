package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/pathways/internal/data"
	"github.com/pavelanni/pathways/internal/matcher"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/questions"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	bank, err := questions.LoadFS(data.FS, data.QuestionsFile)
	require.NoError(t, err)
	m, err := matcher.LoadFS(data.FS, data.MatchesFile)
	require.NoError(t, err)
	return New(bank, m)
}

func TestEvaluate(t *testing.T) {
	s := newTestService(t)

	res, err := s.Evaluate([]model.Category{"R", "R", "I", "A", "R", "S"})
	require.NoError(t, err)

	assert.Equal(t, model.Code("RIA"), res.Code)
	assert.Equal(t, 3, res.Tally["R"])
	assert.Equal(t, []model.Category{"R", "I", "A", "S", "E", "C"}, res.Ranking)
	assert.Contains(t, res.Majors, "Architecture")
	assert.NotEmpty(t, res.Careers)
}

func TestEvaluateEmpty(t *testing.T) {
	s := newTestService(t)

	res, err := s.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, model.Code("RIA"), res.Code)
	assert.Zero(t, res.Tally.Sum())
}

func TestEvaluateInvalid(t *testing.T) {
	s := newTestService(t)

	_, err := s.Evaluate([]model.Category{"R", "Z"})
	assert.ErrorIs(t, err, model.ErrInvalidCategory)
}

func TestDataInfo(t *testing.T) {
	s := newTestService(t)

	info := s.DataInfo("embedded:questions.yaml", "embedded:matches.yaml")
	assert.Equal(t, s.Questions().Len(), info.QuestionCount)
	assert.Equal(t, 21, info.MatchCount)
	assert.Len(t, info.QuestionsSHA256, 64)
	assert.Len(t, info.MatchesSHA256, 64)
}
