package contracts

import "strings"

const (
	decisionCommentPrefixConstant = "#"
	decisionSeparatorConstant     = "---"
)

// DecisionExcerptSize is the number of trailing decision log entries kept for reports.
const DecisionExcerptSize = 5

// DecisionExcerpt returns the last limit entries of a decision log.
// Entries are trimmed lines that are non-empty and whose raw text does not start with "#".
func DecisionExcerpt(content []byte, limit int) []string {
	var entries []string
	for _, rawLine := range splitLines(content) {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 || strings.HasPrefix(rawLine, decisionCommentPrefixConstant) {
			continue
		}
		entries = append(entries, trimmedLine)
	}
	if limit >= 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// IsDecisionSeparator reports whether an entry is a horizontal-rule separator.
func IsDecisionSeparator(entry string) bool {
	return entry == decisionSeparatorConstant
}
