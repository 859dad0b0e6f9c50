package model

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDataUnavailable reports missing or malformed reference data.
	ErrDataUnavailable = errors.New("reference data unavailable")
	// ErrInvalidCategory reports an answer letter outside R, I, A, S, E, C.
	ErrInvalidCategory = errors.New("invalid category")
)

// Category is one of the six interest dimensions.
type Category string

const (
	Realistic     Category = "R"
	Investigative Category = "I"
	Artistic      Category = "A"
	Social        Category = "S"
	Enterprising  Category = "E"
	Conventional  Category = "C"
)

// Categories lists every category in canonical order. Ranking ties are
// resolved by position in this slice.
var Categories = []Category{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

var categoryNames = map[Category]string{
	Realistic:     "Realistic",
	Investigative: "Investigative",
	Artistic:      "Artistic",
	Social:        "Social",
	Enterprising:  "Enterprising",
	Conventional:  "Conventional",
}

// Valid reports whether c is one of the six categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Name returns the English name of the category, or "" if invalid.
func (c Category) Name() string {
	return categoryNames[c]
}

// Option is a single selectable answer of a question.
type Option struct {
	Label    string   `json:"label" yaml:"label"`
	Category Category `json:"category" yaml:"category"`
}

// Question is a questionnaire item. Questions are immutable after load.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []Option `json:"options" yaml:"options"`
}

// Tally maps each category to the number of answers for it.
type Tally map[Category]int

// Sum returns the total number of tallied answers.
func (t Tally) Sum() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Code is a ranked three-letter result code, e.g. "RIA".
type Code string

// Categories splits the code into its letters.
func (c Code) Categories() []Category {
	out := make([]Category, 0, len(c))
	for _, r := range string(c) {
		out = append(out, Category(string(r)))
	}
	return out
}

// MatchEntry associates a code, or a code prefix, with suggested majors and careers.
type MatchEntry struct {
	Code    string   `json:"code" yaml:"code"`
	Majors  []string `json:"majors" yaml:"majors"`
	Careers []string `json:"careers" yaml:"careers"`
}

// SessionState is the per-session record of the last submission.
type SessionState struct {
	ID        string     `json:"id"`
	Answers   []Category `json:"answers"`
	Code      Code       `json:"code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Answered reports whether the session holds a submission.
func (s *SessionState) Answered() bool {
	return s != nil && len(s.Answers) > 0
}

// DataInfo describes the reference data loaded at startup.
type DataInfo struct {
	QuestionsSource string
	QuestionsSHA256 string
	QuestionCount   int
	MatchesSource   string
	MatchesSHA256   string
	MatchCount      int
}

// CodeCount is one row of the code distribution shown to admins.
type CodeCount struct {
	Code  Code
	Count int
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	BasePath         string        // URL prefix for sub-path deployments (e.g. "/es")
	SecureCookies    bool          // Set Secure flag on cookies (disable for local dev)
	SessionTTL       time.Duration // Idle lifetime of an assessment session
	AssistantEnabled bool
}

type sessionCtxKey struct{}

// ContextWithSession stores the current assessment session in the request context.
func ContextWithSession(ctx context.Context, s *SessionState) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext retrieves the assessment session from context, or nil.
func SessionFromContext(ctx context.Context) *SessionState {
	s, _ := ctx.Value(sessionCtxKey{}).(*SessionState)
	return s
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
