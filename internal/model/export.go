package model

import "time"

// AssessmentExport is the top-level JSON structure for session export.
type AssessmentExport struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	QuestionsSHA256 string          `json:"questions_sha256,omitempty"`
	MatchesSHA256   string          `json:"matches_sha256,omitempty"`
	NumSessions     int             `json:"num_sessions"`
	Results         []SessionResult `json:"results"`
}

// SessionResult holds one session's answers and derived data for export.
type SessionResult struct {
	SessionID string         `json:"session_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Answers   string         `json:"answers"`
	Tally     map[string]int `json:"tally"`
	Code      Code           `json:"code"`
	Majors    []string       `json:"majors"`
	Careers   []string       `json:"careers"`
}
