package circulars

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
)

// MaxSummaryLength bounds summaries in characters.
const MaxSummaryLength = 280

const maxRuleKeywords = 6

var obligationWords = []string{"must", "shall", "required", "should", "mandatory"}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true, "this": true,
	"from": true, "will": true, "have": true, "been": true, "their": true, "they": true,
	"into": true, "such": true, "than": true, "under": true, "upon": true, "within": true,
	"before": true, "after": true, "which": true, "where": true, "these": true, "those": true,
	"shall": true, "must": true, "should": true, "required": true, "mandatory": true,
}

var (
	sentencePattern    = regexp.MustCompile(`[^.!?\n]+[.!?]?`)
	eligibilityPattern = regexp.MustCompile(`(?i)eligible[^.\n]+[.\n]?`)
	deadlinePatterns   = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}[- ](?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[- ,]+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	}
)

// Analyzer derives a circular's summary, obligations, eligibility, and deadlines.
type Analyzer struct {
	detector enrichment.LanguageDetector
}

// NewAnalyzer creates an Analyzer that detects language with detector.
func NewAnalyzer(detector enrichment.LanguageDetector) *Analyzer {
	return &Analyzer{detector: detector}
}

// Analyze reads text. Empty text yields an empty analysis in the detector's default language.
func (a *Analyzer) Analyze(text string) Analysis {
	sentences := splitSentences(text)

	return Analysis{
		Language:    a.detector.Detect(text),
		Summary:     summarize(sentences),
		Rules:       extractRules(sentences),
		Eligibility: extractEligibility(text),
		Deadlines:   extractDeadlines(text),
	}
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// summarize joins leading sentences up to MaxSummaryLength, cutting the first
// sentence at a word boundary when it alone is too long.
func summarize(sentences []string) string {
	var sb strings.Builder
	for _, s := range sentences {
		n := utf8.RuneCountInString(sb.String())
		sep := 0
		if n > 0 {
			sep = 1
		}
		if n+sep+utf8.RuneCountInString(s) > MaxSummaryLength {
			if n == 0 {
				return truncateWords(s, MaxSummaryLength)
			}
			break
		}
		if sep == 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func truncateWords(s string, limit int) string {
	const ellipsis = "..."
	runes := []rune(s)
	cut := limit - len(ellipsis)
	if len(runes) <= limit {
		return s
	}
	if i := strings.LastIndexFunc(string(runes[:cut]), unicode.IsSpace); i > 0 {
		return strings.TrimSpace(string(runes[:cut])[:i]) + ellipsis
	}
	return string(runes[:cut]) + ellipsis
}

func extractRules(sentences []string) []Rule {
	rules := []Rule{}
	for _, s := range sentences {
		words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})

		var keywords []string
		for _, ob := range obligationWords {
			if slices.Contains(words, ob) {
				keywords = append(keywords, ob)
			}
		}
		if len(keywords) == 0 {
			continue
		}

		for _, w := range words {
			if len(keywords) >= maxRuleKeywords {
				break
			}
			if utf8.RuneCountInString(w) >= 4 && !stopWords[w] && !slices.Contains(keywords, w) {
				keywords = append(keywords, w)
			}
		}

		rules = append(rules, Rule{Text: s, Keywords: keywords})
	}
	return rules
}

func extractEligibility(text string) string {
	m := eligibilityPattern.FindString(text)
	return strings.Join(strings.Fields(m), " ")
}

func extractDeadlines(text string) []string {
	found := []string{}
	for _, p := range deadlinePatterns {
		for _, m := range p.FindAllString(text, -1) {
			if !slices.Contains(found, m) {
				found = append(found, m)
			}
		}
	}
	return found
}
