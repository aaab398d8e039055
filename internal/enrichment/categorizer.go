package enrichment

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const (
	categoryWeight = 60
	urgencyWeight  = 30
	severityStep   = 3
	maxSeverity    = 10
)

// KeywordCategorizer scores each configured category by keyword hits.
// Descriptions with no hits are assigned a category by hashing the text,
// so the same description always yields the same result.
type KeywordCategorizer struct {
	rules *Rules
}

// NewKeywordCategorizer creates a categorizer over rules.
func NewKeywordCategorizer(rules *Rules) *KeywordCategorizer {
	return &KeywordCategorizer{rules: rules}
}

func (k *KeywordCategorizer) Categorize(ctx context.Context, description string) (Categorization, error) {
	if err := ctx.Err(); err != nil {
		return Categorization{}, err
	}

	text := newTerms(description)

	best, bestHits, total := 0, 0, 0
	for i, c := range k.rules.Categories {
		hits := text.count(c.Keywords)
		total += hits
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}

	confidence := 1.0 / float64(len(k.rules.Categories))
	if total > 0 {
		confidence = float64(bestHits) / float64(total)
	} else {
		best = fallbackIndex(description, len(k.rules.Categories))
	}

	category := k.rules.Categories[best].Name
	urgent := text.count(k.rules.UrgencyKeywords) > 0
	severity := min(maxSeverity, severityStep*text.count(k.rules.SeverityKeywords))

	return Categorization{
		Category:     category,
		UrgencyScore: urgencyScore(confidence, urgent, severity),
		Department:   k.rules.Department(category),
	}, nil
}

// urgencyScore combines classification confidence (0-1), the urgency flag,
// and a 0-10 severity estimate into the 0-100 scale.
func urgencyScore(confidence float64, urgent bool, severity int) int {
	score := confidence * categoryWeight
	if urgent {
		score += urgencyWeight
	}
	score += float64(severity)
	return max(0, min(MaxUrgency, int(score)))
}

func fallbackIndex(description string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(description))))
	return int(h.Sum32() % uint32(n))
}

// terms is a tokenized, lower-cased description used for keyword matching.
type terms struct {
	text   string
	tokens map[string]bool
}

func newTerms(s string) terms {
	lower := strings.ToLower(s)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return terms{text: strings.Join(fields, " "), tokens: tokens}
}

// count returns how many keywords occur. Single words also match simple plurals;
// multi-word keywords match as phrases.
func (t terms) count(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(kw, " ") {
			if strings.Contains(t.text, kw) {
				n++
			}
			continue
		}
		if t.tokens[kw] || t.tokens[kw+"s"] || t.tokens[kw+"es"] {
			n++
		}
	}
	return n
}
