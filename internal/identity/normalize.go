// Package identity turns raw usage-event source strings (full secrets,
// pre-masked secrets, free-text labels) into stable, privacy-safe
// identities that are safe to store, display and compare.
package identity

import (
	"regexp"
	"strings"
)

// Identity is the canonical, tagged form of a source string. Exactly
// one of three prefixes:
//
//	k:<16 hex>  fingerprint of a detected raw secret (irreversible)
//	m:<masked>  input already carried a masking marker
//	t:<label>   free-text fallback, case-preserving
//
// The empty Identity means "no identity" (blank input).
type Identity string

// Identity kinds, matching the tag before the first colon.
const (
	KindSecret = "k"
	KindMasked = "m"
	KindLabel  = "t"
)

func (id Identity) Kind() string {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i > 0 {
		return s[:i]
	}
	return ""
}

func (id Identity) IsZero() bool {
	return id == ""
}

// Masker renders a token for display. The normalizer only decides when
// to apply it; it never masks on its own.
type Masker func(string) string

// MaskToken is the default masker: first and last four characters with
// an ellipsis between, or **** when the token is too short to reveal
// anything safely.
func MaskToken(token string) string {
	if len(token) > 8 {
		return token[:4] + "..." + token[len(token)-4:]
	}
	return "****"
}

// maskedShapeRe matches strings that already look like a masked token:
// short runs of non-space characters on both sides of a masking marker
// (two-or-more repeated mask characters, or an ellipsis glyph), each
// run at most 24 characters.
var maskedShapeRe = regexp.MustCompile(`^\S{1,24}(?:\*{2,}|\.{3,}|…|⋯)\S{1,24}$`)

// Normalizer maps raw source values to Identities. It is a pure
// function of its input plus the injected masker; the fingerprint
// cache is its only cross-call state.
type Normalizer struct {
	cache  *Cache
	masker Masker
}

// NewNormalizer builds a Normalizer. A nil cache uses the shared
// process-wide cache; a nil masker uses MaskToken.
func NewNormalizer(cache *Cache, masker Masker) *Normalizer {
	if cache == nil {
		cache = defaultCache
	}
	if masker == nil {
		masker = MaskToken
	}
	return &Normalizer{cache: cache, masker: masker}
}

// Normalize returns the canonical Identity for a raw source value.
// Detected secrets (whole string or embedded) become k: fingerprints,
// already-masked tokens become m: via the masker, anything else is a
// t: label. A raw secret and its masked display form normalize to
// different identities (k: vs m:); that separation is deliberate and
// consumers may depend on it.
func (n *Normalizer) Normalize(raw string) Identity {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if secret := ExtractRawSecretFromText(trimmed); secret != "" {
		return Identity("k:" + n.cache.Fingerprint(secret))
	}
	if maskedShapeRe.MatchString(trimmed) {
		return Identity("m:" + n.masker(trimmed))
	}
	return Identity("t:" + trimmed)
}

// Mask applies the normalizer's masker directly. Exposed so candidate
// building and display code share the exact masking the normalizer
// would apply.
func (n *Normalizer) Mask(token string) string {
	return n.masker(token)
}
