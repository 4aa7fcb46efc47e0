package envelope

import (
	"fmt"
	"strconv"
	"strings"
)

// tabLabelFloor is the suffix the first generated label increments from
const tabLabelFloor = 1000

// GenerateTabLabel returns "{type}-{recipientNumber}-{n}" where n is one more
// than the largest numeric suffix already used with that prefix, at least 1001.
// The scan runs over the live field set on every call, so suffixes are never
// reused below the current maximum.
func GenerateTabLabel(fieldType FieldType, recipientNumber string, fields []Field) string {
	prefix := fmt.Sprintf("%s-%s-", fieldType, recipientNumber)
	maxNum := tabLabelFloor
	for _, f := range fields {
		if !strings.HasPrefix(f.TabLabel, prefix) {
			continue
		}
		if n, ok := leadingInt(f.TabLabel[len(prefix):]); ok && n > maxNum {
			maxNum = n
		}
	}
	return prefix + strconv.Itoa(maxNum+1)
}

// leadingInt parses the decimal digits at the start of s, ignoring any suffix
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseInt parses user input, returning fallback when it is not an integer.
// Trailing garbage after the leading digits is ignored ("12px" -> 12).
func ParseInt(s string, fallback int) int {
	n, ok := leadingInt(strings.TrimSpace(s))
	if !ok {
		return fallback
	}
	return n
}

// ParseFloat parses user input, returning fallback on failure
func ParseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

// ParseBool parses user input, returning fallback on failure
func ParseBool(s string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}
