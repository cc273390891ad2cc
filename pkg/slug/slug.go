package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*options)

type options struct {
	separator string
	maxLength int
}

// Separator sets the string placed between words. Defaults to "-".
func Separator(sep string) Option {
	return func(o *options) { o.separator = sep }
}

// MaxLength cuts the slug to at most n bytes, at a word boundary when
// possible. Zero means no limit.
func MaxLength(n int) Option {
	return func(o *options) { o.maxLength = n }
}

var special = strings.NewReplacer("ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O", "ł", "l", "Ł", "L")

// Make returns the lowercase ASCII slug of s. The result is empty when s
// has no letters or digits.
func Make(s string, opts ...Option) string {
	o := options{separator: "-"}
	for _, opt := range opts {
		opt(&o)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, special.Replace(s))
	if err != nil {
		folded = s
	}

	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	full := strings.Join(words, o.separator)
	if o.maxLength <= 0 || len(full) <= o.maxLength {
		return full
	}
	out := full[:o.maxLength]
	if o.separator != "" && !strings.HasPrefix(full[o.maxLength:], o.separator) {
		if i := strings.LastIndex(out, o.separator); i > 0 {
			out = out[:i]
		}
	}
	return strings.TrimSuffix(out, o.separator)
}
