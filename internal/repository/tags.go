package repository

import (
	"encoding/json"
	"fmt"
)

// EncodeTags serialises a tag list for a text/jsonb column.
// A nil list is stored as "[]".
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

// DecodeTags is the inverse of EncodeTags. Empty input yields an empty,
// non-nil slice.
func DecodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// LikePattern turns a search query into a "%query%" LIKE pattern with the
// wildcards escaped by '\', so "50%" matches the literal text "50%".
func LikePattern(query string) string {
	out := make([]rune, 0, len(query)+2)
	out = append(out, '%')
	for _, r := range query {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	out = append(out, '%')
	return string(out)
}
