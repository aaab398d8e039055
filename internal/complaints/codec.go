package complaints

import (
	"encoding/json"
	"fmt"
	"strings"
)

// List encodings accepted by NewListCodec.
const (
	EncodingJSON      = "json"
	EncodingDelimited = "delimited"
)

const listDelimiter = ","

// ListCodec serializes ordered string lists into a single text column.
type ListCodec interface {
	Encode(items []string) (string, error)
	Decode(s string) ([]string, error)
}

// NewListCodec returns the codec registered under name.
func NewListCodec(name string) (ListCodec, error) {
	switch name {
	case EncodingJSON, "":
		return JSONCodec{}, nil
	case EncodingDelimited:
		return DelimitedCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown list encoding %q", name)
	}
}

// JSONCodec stores lists as JSON arrays. Values that are not JSON arrays are
// read with the delimited decoder so legacy rows stay readable.
type JSONCodec struct{}

func (JSONCodec) Encode(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONCodec) Decode(s string) ([]string, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") {
		return DelimitedCodec{}.Decode(s)
	}

	var items []string
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// DelimitedCodec stores lists comma-joined. Items containing a comma or
// surrounding whitespace would not survive a round trip and are rejected.
type DelimitedCodec struct{}

func (DelimitedCodec) Encode(items []string) (string, error) {
	for _, item := range items {
		if strings.Contains(item, listDelimiter) || strings.TrimSpace(item) != item || item == "" {
			return "", fmt.Errorf("%w: %q", ErrUnencodable, item)
		}
	}
	return strings.Join(items, listDelimiter), nil
}

// Decode splits on commas, trims each item, and drops empty items.
func (DelimitedCodec) Decode(s string) ([]string, error) {
	items := []string{}
	for part := range strings.SplitSeq(s, listDelimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items, nil
}
