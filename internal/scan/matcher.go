package scan

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// ErrEmptyKeyword is returned by NewMatcher for a blank keyword.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// Matcher decides whether a line of page text matches the keyword. Matching
// is always case-insensitive.
type Matcher struct {
	keyword string
	re      *regexp.Regexp
}

// NewMatcher compiles keyword as a case-insensitive regular expression. With
// literal set, or when the keyword is not a valid expression, it is matched
// as a plain substring instead.
func NewMatcher(keyword string, literal bool, logger zerolog.Logger) (*Matcher, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	pattern := keyword
	if literal {
		pattern = regexp.QuoteMeta(keyword)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		logger.Warn().Err(err).Str("keyword", keyword).Msg("keyword is not a valid pattern, matching it literally")
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	}
	return &Matcher{keyword: keyword, re: re}, nil
}

// Keyword returns the keyword as the user gave it.
func (m *Matcher) Keyword() string { return m.keyword }

// Match reports whether line contains the keyword.
func (m *Matcher) Match(line string) bool {
	return m.re.MatchString(line)
}

// isLineBreak reports whether r ends a line: \n, \r, \v, \f, \x1c-\x1e,
// NEL, U+2028 and U+2029.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// splitLines splits page text at every line break, treating \r\n as one.
// Empty trailing text after the final break does not produce a line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
