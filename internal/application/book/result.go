package book

import (
	"context"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/pkg/logger"
	"satire-press-api/pkg/metrics"
)

// 附属副作用名称
const (
	EffectPatternRead   = "pattern_read"
	EffectPatternAppend = "pattern_append"
	EffectChapterWrite  = "chapter_write"
)

// AncillaryEffect 失败的附属副作用
type AncillaryEffect struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// Message 便于序列化的错误文本
func (e AncillaryEffect) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ContentResult 内容阶段结果：主结果与附属副作用分开报告
type ContentResult struct {
	Record  *entity.ChapterRecord
	Effects []AncillaryEffect
	// Persisted 章节已写回图书
	Persisted bool
}

// Failed 指定副作用是否失败
func (r *ContentResult) Failed(name string) bool {
	for _, e := range r.Effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (r *ContentResult) fail(ctx context.Context, name string, err error) {
	logger.Warn(ctx, "ancillary effect failed", "effect", name, "error", err.Error())
	metrics.AncillaryFailures.WithLabelValues(name).Inc()
	r.Effects = append(r.Effects, AncillaryEffect{Name: name, Err: err})
}
