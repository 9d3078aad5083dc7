package identity

import (
	"strings"
	"testing"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(NewCache(), nil)
}

func TestNormalize_RawSecretBecomesFingerprint(t *testing.T) {
	n := newTestNormalizer()
	secret := "sk-aaaaaaaaaaaaaaaaaaaaaaaa"

	id := n.Normalize(secret)
	if id.Kind() != KindSecret {
		t.Fatalf("expected k: identity, got %q", id)
	}
	if len(id) != len("k:")+16 {
		t.Fatalf("expected k: plus 16 hex chars, got %q", id)
	}
	if strings.Contains(string(id), secret) {
		t.Fatalf("identity %q leaks the raw secret", id)
	}
}

func TestNormalize_SameSecretSameIdentity(t *testing.T) {
	n := newTestNormalizer()
	a := n.Normalize("sk-aaaaaaaaaaaaaaaaaaaaaaaa")
	b := n.Normalize("  sk-aaaaaaaaaaaaaaaaaaaaaaaa  ")
	if a != b {
		t.Fatalf("expected stable identity across runs, got %q vs %q", a, b)
	}
}

func TestNormalize_EmbeddedSecretInURL(t *testing.T) {
	n := newTestNormalizer()
	direct := n.Normalize("sk-abcdefghijklmnop123456")
	embedded := n.Normalize("https://gw.example.com/v1?key=sk-abcdefghijklmnop123456")
	if direct != embedded {
		t.Fatalf("expected URL-embedded secret to share the bare key identity: %q vs %q", direct, embedded)
	}
}

func TestNormalize_MaskedShapeUsesMasker(t *testing.T) {
	n := NewNormalizer(NewCache(), func(s string) string { return "<" + s + ">" })

	cases := []string{
		"sk-a****b123",
		"sk-1…9xyz",
		"abcd...wxyz",
	}
	for _, in := range cases {
		id := n.Normalize(in)
		if id.Kind() != KindMasked {
			t.Fatalf("expected m: identity for %q, got %q", in, id)
		}
		if id != Identity("m:<"+in+">") {
			t.Fatalf("expected injected masker output for %q, got %q", in, id)
		}
	}
}

func TestNormalize_FreeTextLabelPreservesCase(t *testing.T) {
	n := newTestNormalizer()
	id := n.Normalize("  Primary Channel  ")
	if id != Identity("t:Primary Channel") {
		t.Fatalf("expected trimmed case-preserving label, got %q", id)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := newTestNormalizer()
	if id := n.Normalize("   "); !id.IsZero() {
		t.Fatalf("expected empty identity for blank input, got %q", id)
	}
}

func TestIdentity_Kind(t *testing.T) {
	cases := []struct {
		id   Identity
		want string
	}{
		{"k:0123456789abcdef", KindSecret},
		{"m:sk-a...b123", KindMasked},
		{"t:label", KindLabel},
		{"", ""},
	}
	for _, tc := range cases {
		if got := tc.id.Kind(); got != tc.want {
			t.Fatalf("Kind(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"sk-abcdefghijklmnop", "sk-a...mnop"},
		{"12345678", "****"},
		{"", "****"},
	}
	for _, tc := range cases {
		if got := MaskToken(tc.in); got != tc.want {
			t.Fatalf("MaskToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
