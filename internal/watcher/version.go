package watcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionJunk = regexp.MustCompile(`[^0-9.]`)

// IsNewer reports whether candidate orders strictly after current under
// dotted-numeric comparison. Both strings are stripped of everything but
// digits and dots, split on dots, and compared segment-wise as integers
// with the shorter side padded with zeros, so "1.2" equals "1.2.0.0".
// A segment that fails to parse yields (false, ErrVersionParse); callers
// treat that as "no signal", not as a fatal condition.
func IsNewer(current, candidate string) (bool, error) {
	currentParts, err := splitVersion(current)
	if err != nil {
		return false, err
	}
	candidateParts, err := splitVersion(candidate)
	if err != nil {
		return false, err
	}

	maxLen := max(len(currentParts), len(candidateParts))
	for len(currentParts) < maxLen {
		currentParts = append(currentParts, 0)
	}
	for len(candidateParts) < maxLen {
		candidateParts = append(candidateParts, 0)
	}

	for i := 0; i < maxLen; i++ {
		if candidateParts[i] != currentParts[i] {
			return candidateParts[i] > currentParts[i], nil
		}
	}
	return false, nil
}

func splitVersion(version string) ([]int, error) {
	cleaned := versionJunk.ReplaceAllString(version, "")
	if cleaned == "" {
		return nil, fmt.Errorf("%w: %q", ErrVersionParse, version)
	}

	segments := strings.Split(cleaned, ".")
	parts := make([]int, 0, len(segments))
	for _, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrVersionParse, version)
		}
		parts = append(parts, n)
	}
	return parts, nil
}

// FirstVersionToken extracts the leading whitespace-delimited token of a raw
// catalog version cell. Catalog cells may carry trailing descriptive text.
func FirstVersionToken(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
