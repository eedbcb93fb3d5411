package briefing

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[.,;:!?()]`)
)

// ContentHasher keys briefings by the content of their input so routes with
// the same findings share one narrated briefing.
type ContentHasher struct{}

// NewContentHasher creates a new content hasher
func NewContentHasher() *ContentHasher {
	return &ContentHasher{}
}

// Hash returns a hex SHA-256 of the normalized input. Recommendation and
// highlight order does not change the hash.
func (h *ContentHasher) Hash(in Input) string {
	recs := h.normalizeAll(in.Recommendations)
	highlights := h.normalizeAll(in.Highlights)

	signature := strings.Join([]string{
		h.normalizeText(in.RouteName),
		h.normalizeText(in.DistanceText),
		fmt.Sprintf("%d", in.SafetyScore),
		h.normalizeText(in.Terrain),
		h.normalizeText(in.ConstructionImpact),
		strings.Join(highlights, "\n"),
		strings.Join(recs, "\n"),
	}, "|")

	sum := sha256.Sum256([]byte(signature))
	return fmt.Sprintf("%x", sum)
}

func (h *ContentHasher) normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := h.normalizeText(item); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// normalizeText lowercases and strips punctuation and repeated whitespace.
func (h *ContentHasher) normalizeText(text string) string {
	normalized := strings.ToLower(text)
	normalized = punctuation.ReplaceAllString(normalized, "")
	normalized = whitespace.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}
