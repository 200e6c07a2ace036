// Package alerts implements normalization and aggregation of raw alert
// labels: email subject lines, paging incident service names, and similar
// free-text records.
package alerts

import (
	"regexp"
	"strconv"
	"strings"
)

// Multiplier is the result of looking for an occurrence-count annotation in
// a raw label. Found is false when the label carries no annotation; N is
// always at least 1.
type Multiplier struct {
	N     int
	Found bool
}

// The two recognized annotation forms, tried in order. Only the first match
// in the string is honored; anything else in brackets is literal text.
var (
	countPattern  = regexp.MustCompile(`\[(\d+)x\]`)
	firingPattern = regexp.MustCompile(`\[firing:(\d+)\]`)
)

// Normalize canonicalizes a raw alert label: lower-case, trim, and strip an
// optional multiplier annotation such as "[3x]" or "[FIRING:2]". It returns
// the cleaned label and the extracted multiplier (1 when absent).
// Normalizing an already-normalized label is a no-op.
func Normalize(raw string) (string, int) {
	label := strings.TrimSpace(strings.ToLower(raw))

	label, mult := extractMultiplier(label)
	if !mult.Found {
		return label, 1
	}
	return label, mult.N
}

// extractMultiplier removes the first multiplier annotation from s, if any,
// and collapses whitespace left behind by the removal. When both forms
// appear, the one earliest in the string wins, with countPattern breaking
// positional ties. s must already be lower-cased.
func extractMultiplier(s string) (string, Multiplier) {
	var best []int
	for _, pat := range []*regexp.Regexp{countPattern, firingPattern} {
		loc := pat.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	if best == nil {
		return s, Multiplier{N: 1}
	}

	n, err := strconv.Atoi(s[best[2]:best[3]])
	if err != nil || n < 1 {
		// Degenerate count such as [0x]: leave the token as literal text.
		return s, Multiplier{N: 1}
	}

	cleaned := strings.TrimSpace(s[:best[0]] + " " + s[best[1]:])
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned, Multiplier{N: n, Found: true}
}
