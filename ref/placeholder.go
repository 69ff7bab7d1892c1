package ref

import (
	"strconv"
	"strings"
)

const prefix = "ref$"

// IsPlaceholder reports whether s is exactly "ref$" followed by one or
// more decimal digits whose value fits in an int. Longer ids are plain
// strings.
func IsPlaceholder(s string) bool {
	return ExtractID(s) != -1
}

// ExtractID returns the numeric id of a placeholder, or -1 if s is not a
// placeholder.
func ExtractID(s string) int {
	if len(s) <= len(prefix) || !strings.HasPrefix(s, prefix) {
		return -1
	}
	for i := len(prefix); i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return -1
		}
	}
	id, err := strconv.Atoi(s[len(prefix):])
	if err != nil {
		return -1
	}
	return id
}

// Key formats the placeholder for id.
func Key(id int) string {
	return prefix + strconv.Itoa(id)
}

// NormalizeKey maps the short forms "3" and "$3" to "ref$3". Other keys
// are returned unchanged.
func NormalizeKey(key string) string {
	if strings.HasPrefix(key, "ref") {
		return key
	}
	s := strings.TrimPrefix(key, "$")
	if s == "" {
		return key
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return key
		}
	}
	return prefix + s
}
