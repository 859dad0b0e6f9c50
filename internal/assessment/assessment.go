// Package assessment combines the question bank, scorer and matcher.
package assessment

import (
	"github.com/pavelanni/pathways/internal/matcher"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/questions"
	"github.com/pavelanni/pathways/internal/scorer"
)

// Result is everything derived from one answer set.
type Result struct {
	Code    model.Code       `json:"code"`
	Tally   model.Tally      `json:"tally"`
	Ranking []model.Category `json:"ranking"`
	Majors  []string         `json:"majors"`
	Careers []string         `json:"careers"`
}

// Service is read-only after construction and safe for concurrent use.
type Service struct {
	bank    *questions.Bank
	matcher *matcher.Matcher
}

// New creates a Service over loaded reference data.
func New(bank *questions.Bank, m *matcher.Matcher) *Service {
	return &Service{bank: bank, matcher: m}
}

// Questions returns the question bank.
func (s *Service) Questions() *questions.Bank {
	return s.bank
}

// Evaluate scores answers and resolves matches for the resulting code.
func (s *Service) Evaluate(answers []model.Category) (Result, error) {
	t, err := scorer.Tally(answers)
	if err != nil {
		return Result{}, err
	}
	code := scorer.CodeFromTally(t)
	return Result{
		Code:    code,
		Tally:   t,
		Ranking: scorer.Rank(t),
		Majors:  s.matcher.MatchMajors(code),
		Careers: s.matcher.MatchCareers(code),
	}, nil
}

// Tally counts answers per category.
func (s *Service) Tally(answers []model.Category) (model.Tally, error) {
	return scorer.Tally(answers)
}

// Code computes the result code for answers.
func (s *Service) Code(answers []model.Category) (model.Code, error) {
	return scorer.CalculateCode(answers)
}

// MatchMajors returns suggested majors for code.
func (s *Service) MatchMajors(code model.Code) []string {
	return s.matcher.MatchMajors(code)
}

// MatchCareers returns suggested careers for code.
func (s *Service) MatchCareers(code model.Code) []string {
	return s.matcher.MatchCareers(code)
}

// DataInfo describes the loaded reference data. Sources are supplied by the caller.
func (s *Service) DataInfo(questionsSource, matchesSource string) model.DataInfo {
	return model.DataInfo{
		QuestionsSource: questionsSource,
		QuestionsSHA256: s.bank.SHA256(),
		QuestionCount:   s.bank.Len(),
		MatchesSource:   matchesSource,
		MatchesSHA256:   s.matcher.SHA256(),
		MatchCount:      s.matcher.Len(),
	}
}
