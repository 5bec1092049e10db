package util

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrNameEmpty     = errors.New("anime name is required")
	ErrNameTooLong   = errors.New("anime name is too long")
	ErrNameInvalid   = errors.New("anime name contains invalid characters")
	ErrNameForbidden = errors.New("anime name contains forbidden content")
)

const MaxAnimeNameLength = 100

var strictPolicy = bluemonday.StrictPolicy()

var (
	animeNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_ '\x{2018}\x{2019}\-:!?.;,()/\[\]{}"&]+$`)

	forbiddenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i);\s*(select|insert|update|delete|drop|create|alter)\b`),
		regexp.MustCompile(`(?i)'\s*(or|and)\s*['"\d]`),
		regexp.MustCompile(`--\s*$`),
		regexp.MustCompile(`/\*.*\*/`),
		regexp.MustCompile(`(?i)union\s+select`),
		regexp.MustCompile(`(?i)<script[^>]*>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
	}

	promptInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|above|prior)\s+(instructions|prompts?)`),
		regexp.MustCompile(`(?i)ignore\s+all\s+(instructions|prompts?)`),
		regexp.MustCompile(`(?i)disregard\s+(all|previous|above)`),
		regexp.MustCompile(`(?i)\b(system|assistant|user)\s*:`),
		regexp.MustCompile(`(?i)you\s+are\s+now`),
		regexp.MustCompile(`(?i)new\s+instructions`),
		regexp.MustCompile(`(?i)forget\s+(everything|all|previous)`),
		regexp.MustCompile(`(?i)act\s+as\s+(if\s+)?you\s+(are|were)`),
		regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
		regexp.MustCompile(`(?i)roleplay\s+as`),
		regexp.MustCompile(`(?i)jailbreak`),
	}

	whitespaceRun = regexp.MustCompile(`[ \t]+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes every tag and unescapes entities, leaving plain text.
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// CleanUserText strips markup and surrounding whitespace from user input.
func CleanUserText(s string) string {
	return strings.TrimSpace(StripHTML(s))
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateAnimeName checks a user-supplied title before it reaches the
// catalog or a prompt.
func ValidateAnimeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameEmpty
	}
	if RuneLen(name) > MaxAnimeNameLength {
		return "", ErrNameTooLong
	}
	for _, p := range forbiddenPatterns {
		if p.MatchString(name) {
			return "", ErrNameForbidden
		}
	}
	if !animeNamePattern.MatchString(name) {
		return "", ErrNameInvalid
	}
	return name, nil
}

// SanitizeForPrompt makes untrusted text safe to interpolate into a prompt:
// markup and control characters go, injection phrases become [REMOVED],
// braces are escaped and the result is cut to maxLen characters.
func SanitizeForPrompt(text string, maxLen int) string {
	if text == "" {
		return ""
	}
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	text = StripHTML(text)

	for _, p := range promptInjectionPatterns {
		text = p.ReplaceAllString(text, "[REMOVED]")
	}

	text = strings.NewReplacer("{", "{{", "}", "}}").Replace(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if maxLen > 0 && RuneLen(text) > maxLen {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:maxLen])) + "..."
	}
	return text
}
