// utils/codes.go
package utils

import (
	"fmt"
	"strings"
)

// FormatCode turns a sequence value into a display code: the category's
// first letter uppercased, a dash, and the value zero-padded to 4 digits.
// format("service", 7) -> "S-0007"; values past 9999 are never truncated.
func FormatCode(category string, value int64) string {
	prefix := strings.ToUpper(category[:1])
	return fmt.Sprintf("%s-%04d", prefix, value)
}
