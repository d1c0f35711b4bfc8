package node

import "unicode/utf8"

// TruncateByRunes 按字符数截断字符串，不会把多字节字符截成半个。
// maxRunes 不为正时返回空串。
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
