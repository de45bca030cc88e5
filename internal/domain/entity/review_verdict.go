package entity

import "strings"

// ReviewScores 审稿评分（1-5）
type ReviewScores struct {
	Originality int `json:"originality,omitempty"`
	Humor       int `json:"humor,omitempty"`
	Coherence   int `json:"coherence,omitempty"`
	Voice       int `json:"voice,omitempty"`
	Pacing      int `json:"pacing,omitempty"`
}

// Recommendations 审稿建议分组
type Recommendations struct {
	Keep     []string `json:"keep,omitempty"`
	Consider []string `json:"consider,omitempty"`
	Watch    []string `json:"watch,omitempty"`
}

// ReviewVerdict 审稿结论，不单独持久化
//
// 编排器只读取 RequiresRevision，其余字段仅供参考。
type ReviewVerdict struct {
	RequiresRevision  bool            `json:"requiresRevision"`
	Reason            string          `json:"reason,omitempty"`
	Scores            ReviewScores    `json:"scores"`
	FormulaicPatterns []string        `json:"formulaicPatterns,omitempty"`
	BestLines         []string        `json:"bestLines,omitempty"`
	Recommendations   Recommendations `json:"recommendations"`
}

// RevisionGuidance 由建议文本拼接出下一稿的修改指引
func (v *ReviewVerdict) RevisionGuidance() string {
	if v == nil {
		return ""
	}
	lines := make([]string, 0, len(v.Recommendations.Consider)+len(v.Recommendations.Watch))
	for _, s := range v.Recommendations.Consider {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	for _, s := range v.Recommendations.Watch {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return strings.TrimSpace(v.Reason)
	}
	return strings.Join(lines, "\n")
}
