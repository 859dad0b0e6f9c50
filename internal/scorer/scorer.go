// Package scorer turns a sequence of answer letters into a ranked result code.
package scorer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pavelanni/pathways/internal/model"
)

// CodeLength is the number of letters in a result code.
const CodeLength = 3

// DefaultCode is the code produced when no answers were given: every count is
// zero, so the canonical order decides.
const DefaultCode model.Code = "RIA"

// ParseAnswers normalizes raw answer values into categories.
// Values are trimmed and upper-cased before validation.
func ParseAnswers(raw []string) ([]model.Category, error) {
	answers := make([]model.Category, 0, len(raw))
	for i, v := range raw {
		c := model.Category(strings.ToUpper(strings.TrimSpace(v)))
		if !c.Valid() {
			return nil, fmt.Errorf("answer %d: %w: %q", i+1, model.ErrInvalidCategory, v)
		}
		answers = append(answers, c)
	}
	return answers, nil
}

// Tally counts answers per category. All six categories are present in the result.
func Tally(answers []model.Category) (model.Tally, error) {
	t := make(model.Tally, len(model.Categories))
	for _, c := range model.Categories {
		t[c] = 0
	}
	for i, a := range answers {
		if !a.Valid() {
			return nil, fmt.Errorf("answer %d: %w: %q", i+1, model.ErrInvalidCategory, string(a))
		}
		t[a]++
	}
	return t, nil
}

// Rank orders all six categories by count, highest first.
// Equal counts keep canonical order (R, I, A, S, E, C).
func Rank(t model.Tally) []model.Category {
	ranked := make([]model.Category, len(model.Categories))
	copy(ranked, model.Categories)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t[ranked[i]] > t[ranked[j]]
	})
	return ranked
}

// CalculateCode returns the three highest-ranked categories as a code.
func CalculateCode(answers []model.Category) (model.Code, error) {
	t, err := Tally(answers)
	if err != nil {
		return "", err
	}
	return CodeFromTally(t), nil
}

// CodeFromTally returns the code for an already computed tally.
func CodeFromTally(t model.Tally) model.Code {
	var sb strings.Builder
	for _, c := range Rank(t)[:CodeLength] {
		sb.WriteString(string(c))
	}
	return model.Code(sb.String())
}
