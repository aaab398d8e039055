// Package circulars ingests government circular PDFs, extracts their text,
// and derives summaries, obligations, eligibility, and deadlines.
package circulars

import "time"

// Rule is an obligation sentence found in a circular.
type Rule struct {
	Text     string   `json:"rule_text"`
	Keywords []string `json:"keywords"`
}

// Circular is an ingested circular and its derived analysis.
type Circular struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storage_key"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   int       `json:"page_count"`
	Summary     string    `json:"content_summary"`
	Language    string    `json:"language"`
	Rules       []Rule    `json:"extracted_rules"`
	Eligibility string    `json:"eligibility_criteria"`
	Deadlines   []string  `json:"deadlines"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadCommand carries an uploaded circular file.
type UploadCommand struct {
	Filename string
	Data     []byte
}

// Extraction is the raw text content of a PDF.
type Extraction struct {
	Text      string
	PageCount int
}

// Analysis is the heuristic reading of a circular's text.
type Analysis struct {
	Language    string
	Summary     string
	Rules       []Rule
	Eligibility string
	Deadlines   []string
}
