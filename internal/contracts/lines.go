package contracts

import "strings"

const (
	carriageReturnLineFeedConstant = "\r\n"
	lineFeedConstant               = "\n"
)

// splitLines returns every line of content without a length limit. Both LF and CRLF
// line endings are accepted.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	normalized := strings.ReplaceAll(string(content), carriageReturnLineFeedConstant, lineFeedConstant)
	return strings.Split(normalized, lineFeedConstant)
}
