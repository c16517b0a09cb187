package triage

import "strings"

// NormalizeLabel converts a raw model token into its display form: trimmed,
// separators replaced with spaces, and each word title-cased. "unsafe_area"
// becomes "Unsafe Area".
func NormalizeLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Arbitrate picks the canonical issue type. A non-empty user label always
// wins and is kept verbatim apart from trimming; the classifier's raw label
// is advisory and only used, normalized, when the user supplied nothing.
// The result is not checked against the routing table: unmapped labels fall
// through to the default authority.
func Arbitrate(userLabel, rawLabel string) string {
	if trimmed := strings.TrimSpace(userLabel); trimmed != "" {
		return trimmed
	}
	return NormalizeLabel(rawLabel)
}
