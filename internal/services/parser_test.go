package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scored struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  scored
	}{
		{"plain object", `{"score": 7, "notes": "fine"}`, scored{7, "fine"}},
		{"fenced with prose", "Here is the result:\n```json\n{\"score\": 8, \"notes\": \"solid\"}\n```\nThanks!", scored{8, "solid"}},
		{"fenced without tag", "```\n{\"score\": 3}\n```", scored{Score: 3}},
		{"braces in prose", `Sure! {"score": 6, "notes": "a {nested} word"} hope this helps`, scored{6, "a {nested} word"}},
		{"typographic quotes", "{\u201cscore\u201d: 9, \u201cnotes\u201d: \u201cgreat \u2014 really\u201d}", scored{9, "great - really"}},
		{"non-breaking space", "{\"score\":\u00a05}", scored{Score: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got scored
			require.NoError(t, ExtractJSON(tc.input, &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	inputs := []string{
		"no braces anywhere in this reply",
		"",
		`["not", "an", "object"]`,
		"{ broken json",
	}

	for _, in := range inputs {
		var v scored
		err := ExtractJSON(in, &v)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrParseFailed))

		var pf *ParseFailure
		require.ErrorAs(t, err, &pf)
	}
}

func TestParseFailureExcerptIsBounded(t *testing.T) {
	err := ExtractJSON(strings.Repeat("x", 1000), &scored{})

	var pf *ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Len(t, []rune(pf.Excerpt), 200)
}

func TestExtractJSONTypeMismatchFallsThrough(t *testing.T) {
	var v scored
	err := ExtractJSON(`{"score": "high"}`, &v)
	assert.ErrorIs(t, err, ErrParseFailed)
}
