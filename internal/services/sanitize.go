package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const filteredMarker = "[FILTERED]"

// DefaultInjectionPatterns is the built-in prompt-injection policy.
var DefaultInjectionPatterns = []string{
	`ignore\s+(all\s+)?(previous|above|prior)\s+(instructions|prompts|rules)`,
	`disregard\s+(all\s+)?(previous|above|prior)`,
	`you\s+are\s+now\s+a`,
	`new\s+instructions?\s*:`,
	`system\s*prompt\s*:`,
	`forget\s+(everything|all)`,
}

// Sanitizer neutralizes instruction-override phrases in candidate text
// before it is embedded into a prompt.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

func NewSanitizer(patterns []string) (*Sanitizer, error) {
	s := &Sanitizer{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid injection pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// NewDefaultSanitizer uses DefaultInjectionPatterns.
func NewDefaultSanitizer() *Sanitizer {
	s, err := NewSanitizer(DefaultInjectionPatterns)
	if err != nil {
		panic(err)
	}
	return s
}

type promptGuardFile struct {
	Patterns []string `yaml:"patterns"`
}

// LoadSanitizer reads the pattern list from a YAML file. An empty path
// yields the default policy.
func LoadSanitizer(path string) (*Sanitizer, error) {
	if path == "" {
		return NewDefaultSanitizer(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt guard file: %w", err)
	}

	var guard promptGuardFile
	if err := yaml.Unmarshal(data, &guard); err != nil {
		return nil, fmt.Errorf("failed to parse prompt guard file: %w", err)
	}
	if len(guard.Patterns) == 0 {
		return nil, fmt.Errorf("prompt guard file %s has no patterns", path)
	}

	return NewSanitizer(guard.Patterns)
}

func (s *Sanitizer) Sanitize(text string) string {
	for _, re := range s.patterns {
		text = re.ReplaceAllString(text, filteredMarker)
	}
	return text
}

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	excessSpaces   = regexp.MustCompile(` {2,}`)
)

// NormalizeInput trims user text and collapses runs of blank lines and spaces.
func NormalizeInput(text string) string {
	text = strings.TrimSpace(text)
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = excessSpaces.ReplaceAllString(text, " ")
	return text
}
