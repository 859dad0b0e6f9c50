package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/pathways/internal/model"
)

// SplitMarker separates chat bubbles in casual replies.
const SplitMarker = "|SPLIT|"

const maxQuestionRunes = 2000

var (
	studentQuestionRegex    = regexp.MustCompile(`(?i)</?\s*student-question\b[^>]*>`)
	systemInstructionsRegex = regexp.MustCompile(`(?i)</?\s*system-instructions\b[^>]*>`)
)

// Templates holds the bundled prompt templates.
//
//go:embed templates/*.txt
var Templates embed.FS

// PromptVariant selects the assistant's tone.
type PromptVariant string

const (
	// PromptCasual replies in short texting-style blocks separated by SplitMarker.
	PromptCasual PromptVariant = "casual"
	// PromptStandard is a concise advisor tone.
	PromptStandard PromptVariant = "standard"
)

var validVariants = map[PromptVariant]bool{
	PromptCasual:   true,
	PromptStandard: true,
}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[PromptVariant]*template.Template
)

// IsValidVariant checks if a prompt variant name is valid.
func IsValidVariant(v string) bool {
	return validVariants[PromptVariant(v)]
}

// AssistantData holds template data for assistant system prompts.
type AssistantData struct {
	Code       string
	Categories []string
	Majors     []string
	Careers    []string
	Split      string
}

// Load loads prompt templates from fsys.
// It uses sync.Once to ensure templates are loaded only once.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		templates = make(map[PromptVariant]*template.Template)

		for _, v := range []PromptVariant{PromptCasual, PromptStandard} {
			file := "templates/assistant_" + string(v) + ".txt"

			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = errors.New("failed to read prompt file " + file + ": " + err.Error())
				return
			}

			tmpl, err := template.New("assistant").Funcs(template.FuncMap{
				"join": strings.Join,
			}).Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			templates[v] = tmpl
		}
	})
	return loadErr
}

// BuildSystemPrompt renders the assistant system prompt for a result code and its matches.
// An empty code means the user has not taken the assessment yet.
func BuildSystemPrompt(variant PromptVariant, code model.Code, majors, careers []string) (string, error) {
	if templates == nil {
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := templates[variant]
	if !ok {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("invalid prompt variant: " + string(variant))
	}

	data := AssistantData{
		Code:    string(code),
		Majors:  majors,
		Careers: careers,
		Split:   SplitMarker,
	}
	for _, c := range code.Categories() {
		if c.Valid() {
			data.Categories = append(data.Categories, c.Name())
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapQuestion sanitizes a user question and wraps it in delimiter tags.
func WrapQuestion(q string) string {
	return "<student-question>\n" + sanitizeQuestion(q) + "\n</student-question>"
}

func sanitizeQuestion(q string) string {
	q = studentQuestionRegex.ReplaceAllString(q, "")
	q = systemInstructionsRegex.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)

	if q == "" {
		return "[No question provided]"
	}

	if utf8.RuneCountInString(q) > maxQuestionRunes {
		runes := []rune(q)
		q = string(runes[:maxQuestionRunes]) + "\n\n[Question truncated due to length]"
	}
	return q
}
