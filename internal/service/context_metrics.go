package service

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// maxTagEditDistance is the edit distance at or below which two tags are
// considered the same tag (typos, singular/plural, case drift).
const maxTagEditDistance = 1

// CountNovelTags reports how many extracted tags have no close match among
// the tags the capture host already knew. Diagnostic only; the result
// contract never depends on it.
func CountNovelTags(existingTags, extractedTags []string) int {
	if len(extractedTags) == 0 {
		return 0
	}

	existing := make([]string, 0, len(existingTags))
	for _, tag := range existingTags {
		existing = append(existing, normalizeTag(tag))
	}

	novel := 0
	for _, tag := range extractedTags {
		if !hasCloseMatch(normalizeTag(tag), existing) {
			novel++
		}
	}
	return novel
}

func hasCloseMatch(tag string, existing []string) bool {
	for _, candidate := range existing {
		if levenshtein.Distance(tag, candidate) <= maxTagEditDistance {
			return true
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
