package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed marks model output that held no usable JSON object.
var ErrParseFailed = errors.New("no valid JSON object in model output")

const parseExcerptLength = 200

// ParseFailure carries a bounded excerpt of the offending output.
type ParseFailure struct {
	Excerpt string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("could not extract JSON from response: %q", e.Excerpt)
}

func (e *ParseFailure) Is(target error) bool {
	return target == ErrParseFailed
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")

var typographicReplacer = strings.NewReplacer(
	"\u2010", "-",
	"\u2011", "-",
	"\u2012", "-",
	"\u2013", "-",
	"\u2014", "-",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"\u00a0", " ",
)

// NormalizeTypography replaces typographic dashes, quotes and non-breaking
// spaces with their ASCII counterparts.
func NormalizeTypography(text string) string {
	return typographicReplacer.Replace(text)
}

// ExtractJSON decodes the first JSON object found in model output into v.
// It tries the whole text, then a fenced code block, then the span between
// the first '{' and the last '}'.
func ExtractJSON(text string, v any) error {
	text = NormalizeTypography(strings.TrimSpace(text))

	if decodeObject(text, v) {
		return nil
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if decodeObject(strings.TrimSpace(m[1]), v) {
			return nil
		}
	}

	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			if decodeObject(text[start:end+1], v) {
				return nil
			}
		}
	}

	return &ParseFailure{Excerpt: excerpt(text)}
}

func decodeObject(candidate string, v any) bool {
	raw := bytes.TrimSpace([]byte(candidate))
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	if !json.Valid(raw) {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > parseExcerptLength {
		return string(runes[:parseExcerptLength])
	}
	return text
}
