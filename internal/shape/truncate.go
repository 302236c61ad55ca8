package shape

import "fmt"

// noticeReserve is subtracted from the budget before the hard cut so the
// truncation notice itself fits inside the configured limit.
const noticeReserve = 200

// Truncate enforces the character budget on a human-readable rendering.
// The cut is a hard character (rune) cut, not an item-aware one; when it
// fires, a deterministic notice naming the original and shown lengths
// plus remediation guidance is appended. Truncation absorbs oversized
// input; it never errors.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	shown := limit - noticeReserve
	if shown < 0 {
		shown = 0
	}
	return fmt.Sprintf(
		"%s\n\n[CONTENT TRUNCATED - Original length: %d characters. "+
			"Showing first %d characters. "+
			"Use more specific filters, a lower limit, or pagination to get focused results.]",
		string(runes[:shown]), len(runes), shown,
	)
}
