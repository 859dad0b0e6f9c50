// Package data embeds the default question bank and match table.
package data

import "embed"

// Default file names inside FS.
const (
	QuestionsFile = "questions.yaml"
	MatchesFile   = "matches.yaml"
)

// FS holds the bundled reference data.
//
//go:embed questions.yaml matches.yaml
var FS embed.FS
