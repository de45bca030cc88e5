// Package model 定义生成阶段的输入输出
package model

import "satire-press-api/internal/domain/industry"

// StageParams 单次模型调用的采样参数
type StageParams struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Voice 代入提示词的行业语气
type Voice struct {
	industry.Profile
}

func (v Voice) vars() map[string]any {
	return map[string]any{
		"industry_name":   v.Name,
		"target_audience": v.TargetAudience,
		"myths":           v.MythList(),
		"jargon":          v.JargonList(),
	}
}

// PromptVars 合并行业语气与额外变量
func (v Voice) PromptVars(extra map[string]any) map[string]any {
	out := v.vars()
	for k, val := range extra {
		out[k] = val
	}
	return out
}
