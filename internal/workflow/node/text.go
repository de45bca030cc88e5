package node

import (
	"strings"
	"unicode/utf8"
)

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

// OpeningExcerpt 取前 maxLines 个非空行，并按 maxRunes 截断
func OpeningExcerpt(content string, maxLines, maxRunes int) string {
	lines := make([]string, 0, maxLines)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			break
		}
	}
	return TruncateByRunes(strings.Join(lines, "\n"), maxRunes)
}

// ScanPrefixed 逐行扫描带前缀的字段（如 "TITLE:"），前缀大小写不敏感。
// 每个前缀取第一次出现的值；未出现的前缀对应空字符串。
func ScanPrefixed(text string, prefixes ...string) map[string]string {
	out := make(map[string]string, len(prefixes))
	for _, p := range prefixes {
		out[p] = ""
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*#-> "))
		upper := strings.ToUpper(line)
		for _, p := range prefixes {
			if out[p] != "" || !strings.HasPrefix(upper, strings.ToUpper(p)) {
				continue
			}
			value := strings.TrimSpace(line[len(p):])
			out[p] = strings.TrimSpace(strings.Trim(value, "*\"“” "))
			break
		}
	}
	return out
}
