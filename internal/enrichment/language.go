package enrichment

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// DefaultLanguage is returned when no other language is recognized.
const DefaultLanguage = "en"

// SupportedLanguages lists the language codes a complaint may carry.
func SupportedLanguages() []string {
	return []string{"en", "hi", "kn", "mr", "ta", "te"}
}

var languageNames = []struct {
	name string
	code string
}{
	{"hindi", "hi"},
	{"kannada", "kn"},
	{"marathi", "mr"},
	{"tamil", "ta"},
	{"telugu", "te"},
}

var languageScripts = []struct {
	table *unicode.RangeTable
	code  string
}{
	{unicode.Devanagari, "hi"},
	{unicode.Kannada, "kn"},
	{unicode.Tamil, "ta"},
	{unicode.Telugu, "te"},
}

// Detector recognizes a language from explicit language names or the
// dominant Indic script in the text. It is total: unrecognized input is English.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns a code from SupportedLanguages.
func (d *Detector) Detect(text string) string {
	lower := strings.ToLower(text)
	for _, l := range languageNames {
		if strings.Contains(lower, l.name) {
			return l.code
		}
	}

	counts := make([]int, len(languageScripts))
	latin := 0
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) {
			continue
		}
		if unicode.Is(unicode.Latin, r) {
			latin++
			continue
		}
		for i, s := range languageScripts {
			if unicode.Is(s.table, r) {
				counts[i]++
				break
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > latin && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best >= 0 {
		return languageScripts[best].code
	}

	return DefaultLanguage
}

// NormalizeLanguage reduces a BCP 47 tag such as "hi-IN" to its base code and
// checks it against SupportedLanguages.
func NormalizeLanguage(tag string) (string, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}

	base, _ := t.Base()
	code := base.String()
	if !slices.Contains(SupportedLanguages(), code) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	return code, nil
}
