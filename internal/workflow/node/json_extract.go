package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONFound 输出中不存在成对的定界符
	ErrNoJSONFound = errors.New("no JSON payload found")
	// ErrInvalidJSON 截取出的片段无法解析
	ErrInvalidJSON = errors.New("invalid JSON payload")
)

// ExtractError 描述截取失败的原因，可用 errors.Is 判断 ErrNoJSONFound / ErrInvalidJSON
type ExtractError struct {
	Kind    error
	Snippet string
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *ExtractError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ExtractJSONObject 从模型输出中截取 JSON 对象。
// 先取第一个 '{' 到最后一个 '}'，若该片段不是合法 JSON，再退回到第一个括号平衡的对象。
func ExtractJSONObject(s string) (string, error) {
	return extract(s, '{', '}')
}

// ExtractJSONArray 同 ExtractJSONObject，针对数组
func ExtractJSONArray(s string) (string, error) {
	return extract(s, '[', ']')
}

// DecodeJSONObject 截取并解码 JSON 对象到 v
func DecodeJSONObject(s string, v any) error {
	raw, err := ExtractJSONObject(s)
	if err != nil {
		return err
	}
	return decodeStrict(raw, v)
}

// DecodeJSONArray 截取并解码 JSON 数组到 v
func DecodeJSONArray(s string, v any) error {
	raw, err := ExtractJSONArray(s)
	if err != nil {
		return err
	}
	return decodeStrict(raw, v)
}

func decodeStrict(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ExtractError{Kind: ErrInvalidJSON, Snippet: TruncateByRunes(raw, 200), Err: err}
	}
	return nil
}

func extract(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", &ExtractError{Kind: ErrNoJSONFound, Snippet: TruncateByRunes(s, 200)}
	}

	outer := s[start : end+1]
	if json.Valid([]byte(outer)) {
		return outer, nil
	}

	if balanced, ok := firstBalanced(s[start:], open, close); ok && json.Valid([]byte(balanced)) {
		return balanced, nil
	}

	var probe any
	err := json.Unmarshal([]byte(outer), &probe)
	return "", &ExtractError{Kind: ErrInvalidJSON, Snippet: TruncateByRunes(outer, 200), Err: err}
}

// firstBalanced 返回以 s[0] 开头的第一个括号平衡片段，忽略字符串字面量中的括号
func firstBalanced(s string, open, close byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
