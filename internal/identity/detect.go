package identity

import (
	"regexp"
	"strings"
	"unicode"
)

// Length bands for the heuristic classifier. Inherited thresholds,
// kept as tunable constants rather than derived invariants.
const (
	secretMinLen      = 32
	secretMaxLen      = 512
	shortSecretMinLen = 16

	// Minimum token body following a known vendor prefix.
	secretPrefixBodyLen = 8
)

// Vendor-style secret prefixes, longest first so extraction picks the
// most specific form.
var secretPrefixes = []string{
	"sk-ant-",
	"sk-proj-",
	"sk-or-",
	"sk-",
	"pk-",
	"key-",
	"api-",
	"github_pat_",
	"ghp_",
	"gho_",
	"xoxb-",
	"xoxp-",
	"AKIA",
	"AIza",
}

var (
	prefixTokenRe = regexp.MustCompile(`(sk-ant-|sk-proj-|sk-or-|sk-|pk-|key-|api-|github_pat_|ghp_|gho_|xoxb-|xoxp-|AKIA|AIza)[A-Za-z0-9_-]{8,}`)
	queryParamRe  = regexp.MustCompile(`(?i)(?:api_key|apikey|access_token|token|key)=([A-Za-z0-9._=-]{16,})`)
	headerValueRe = regexp.MustCompile(`(?i)(?:x-api-key|api-key|token|key)\s*:\s*([A-Za-z0-9._=-]{16,})`)
	bearerRe      = regexp.MustCompile(`(?i)bearer\s+([A-Za-z0-9._=-]{16,})`)
)

// LooksLikeRawSecret reports whether text, as a whole, is shaped like a
// raw secret token. This is a heuristic classifier, not a validator:
// filenames, URLs and anything containing whitespace are rejected up
// front, then a string passes on a known vendor prefix, on length
// alone within [32,512], or on a short mixed letter+digit token form.
func LooksLikeRawSecret(text string) bool {
	if text == "" {
		return false
	}
	if strings.ContainsFunc(text, unicode.IsSpace) {
		return false
	}
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, ".json") {
		return false
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return false
	}
	if strings.ContainsAny(text, `/\`) {
		return false
	}

	if hasKnownSecretPrefix(text) {
		return true
	}
	n := len(text)
	if n >= secretMinLen && n <= secretMaxLen {
		return true
	}
	if n >= shortSecretMinLen && n < secretMinLen {
		return isShortTokenCharset(text) && containsLetter(text) && containsDigit(text)
	}
	return false
}

// ExtractRawSecretFromText returns the first secret-shaped token found
// in text: the whole string, a known-prefix token, a key=/token= query
// parameter value, a key:/token: header assignment, or a Bearer token.
// Returns "" when nothing secret-shaped is present. Used when a source
// field is a URL or header blob rather than a bare key.
func ExtractRawSecretFromText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if LooksLikeRawSecret(trimmed) {
		return trimmed
	}

	if match := prefixTokenRe.FindString(trimmed); match != "" {
		return match
	}
	for _, re := range []*regexp.Regexp{queryParamRe, headerValueRe, bearerRe} {
		groups := re.FindStringSubmatch(trimmed)
		if len(groups) < 2 {
			continue
		}
		if candidate := groups[1]; LooksLikeRawSecret(candidate) {
			return candidate
		}
	}
	return ""
}

func hasKnownSecretPrefix(text string) bool {
	for _, prefix := range secretPrefixes {
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		body := text[len(prefix):]
		if len(body) >= secretPrefixBodyLen && isTokenBody(body) {
			return true
		}
	}
	return false
}

func isTokenBody(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return s != ""
}

func isShortTokenCharset(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '=', c == '-':
		default:
			return false
		}
	}
	return true
}

func containsLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
