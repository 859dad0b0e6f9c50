package store

import (
	"fmt"

	"github.com/pavelanni/pathways/internal/model"
)

// Resolver computes the derived fields of an exported session.
type Resolver interface {
	Tally(answers []model.Category) (model.Tally, error)
	Code(answers []model.Category) (model.Code, error)
	MatchMajors(code model.Code) []string
	MatchCareers(code model.Code) []string
}

// ExportAllSessions builds export-ready results for every stored session that has answers.
// Codes are recomputed from the stored answers.
func (s *Store) ExportAllSessions(r Resolver) ([]model.SessionResult, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	results := []model.SessionResult{}
	for _, sess := range sessions {
		if !sess.Answered() {
			continue
		}

		tally, err := r.Tally(sess.Answers)
		if err != nil {
			return nil, fmt.Errorf("tally session %s: %w", sess.ID, err)
		}
		code, err := r.Code(sess.Answers)
		if err != nil {
			return nil, fmt.Errorf("score session %s: %w", sess.ID, err)
		}

		counts := make(map[string]int, len(tally))
		for c, n := range tally {
			counts[string(c)] = n
		}

		results = append(results, model.SessionResult{
			SessionID: sess.ID,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
			Answers:   encodeAnswers(sess.Answers),
			Tally:     counts,
			Code:      code,
			Majors:    r.MatchMajors(code),
			Careers:   r.MatchCareers(code),
		})
	}

	return results, nil
}
