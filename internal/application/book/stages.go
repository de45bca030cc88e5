package book

import (
	"context"
	"fmt"
	"strings"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/workflow/node"
	wfmodel "satire-press-api/internal/workflow/model"
	apperrors "satire-press-api/pkg/errors"
	"satire-press-api/pkg/logger"
	"satire-press-api/pkg/metrics"
)

// TitleRequest 标题生成参数；Context 为空时从行业语境中随机抽取
type TitleRequest struct {
	Industry string
	Context  string
}

// TitleResult 标题生成结果
type TitleResult struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Context  string `json:"context"`
	Industry string `json:"industry"`
}

// GenerateTitle 生成标题，不落库
func (s *Service) GenerateTitle(ctx context.Context, req TitleRequest) (*TitleResult, error) {
	voice, err := voiceFor(req.Industry)
	if err != nil {
		return nil, err
	}

	seed := strings.TrimSpace(req.Context)
	if seed == "" && len(voice.Contexts) > 0 {
		seed = voice.Contexts[s.rnd.IntRange(0, len(voice.Contexts)-1)]
	}

	out, err := s.stages.Title.Invoke(ctx, &wfmodel.TitleInput{Voice: voice, Context: seed})
	if err != nil {
		return nil, err
	}
	return &TitleResult{
		Title:    out.Title,
		Subtitle: out.Subtitle,
		Context:  seed,
		Industry: voice.Key,
	}, nil
}

// OutlineRequest 大纲生成参数；BookID 为空时新建图书
type OutlineRequest struct {
	BookID   string
	Title    string
	Subtitle string
	Industry string
	Context  string
	EditedBy string
}

// OutlineResult 大纲生成结果
type OutlineResult struct {
	BookID        string   `json:"bookId"`
	ChapterTitles []string `json:"chapterTitles"`
}

// GenerateOutline 生成章节列表并持久化，同时锁定标题
func (s *Service) GenerateOutline(ctx context.Context, req OutlineRequest) (*OutlineResult, error) {
	var existing *entity.Book
	if req.BookID != "" {
		b, err := s.Get(ctx, req.BookID)
		if err != nil {
			return nil, err
		}
		if !b.CanEditChapters() {
			return nil, apperrors.ErrChaptersLocked
		}
		existing = b
	}

	title, subtitle, industryName := strings.TrimSpace(req.Title), strings.TrimSpace(req.Subtitle), req.Industry
	if existing != nil {
		if title == "" || !existing.CanEditTitle() {
			title, subtitle = existing.Title, existing.Subtitle
		}
		if industryName == "" {
			industryName = existing.Industry
		}
	}
	if title == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title is required")
	}
	voice, err := voiceFor(industryName)
	if err != nil {
		return nil, err
	}

	count := s.rnd.IntRange(s.opts.MinChapters, s.opts.MaxChapters)
	titles, err := s.stages.Outline.Invoke(ctx, &wfmodel.OutlineInput{
		Voice:        voice,
		Title:        title,
		Subtitle:     subtitle,
		ChapterCount: count,
	})
	if err != nil {
		return nil, err
	}
	if len(titles) != count {
		logger.Warn(ctx, "outline length differs from requested count",
			"requested", count,
			"received", len(titles),
		)
	}

	if existing == nil {
		b := entity.NewBook(title, subtitle, voice.Key, req.Context)
		b.SetOutline(titles)
		b.LastEditedBy = req.EditedBy
		if err := s.books.Create(ctx, b); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to persist outline")
		}
		return &OutlineResult{BookID: b.ID, ChapterTitles: titles}, nil
	}

	b, err := s.Mutate(ctx, existing.ID, func(b *entity.Book) error {
		if !b.CanEditChapters() {
			return apperrors.ErrChaptersLocked
		}
		if b.CanEditTitle() {
			b.Title, b.Subtitle = title, subtitle
		}
		b.SetOutline(titles)
		b.LastEditedBy = req.EditedBy
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &OutlineResult{BookID: b.ID, ChapterTitles: titles}, nil
}

// ContentRequest 内容生成参数
type ContentRequest struct {
	BookID        string
	ChapterNumber int
	// ChapterTitle 为空时取大纲中的标题
	ChapterTitle string
	// Revision 已重写次数；大于 0 时以修订模式生成
	Revision         int
	RevisionGuidance string
	EditedBy         string
	// Deferred 为 true 时不写回图书，由调用方在定稿后持久化
	Deferred bool
}

// GenerateContent 生成章节正文。
// 主结果为章节记录；模式追加与章节写回为附属副作用，失败只记录，不影响返回。
func (s *Service) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResult, error) {
	ctx = logger.WithContext(ctx, logger.BookIDKey, req.BookID)

	b, err := s.Get(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !b.HasOutline() {
		return nil, apperrors.ErrInvalidParam.WithDetail("book has no chapter outline")
	}
	title := strings.TrimSpace(req.ChapterTitle)
	if outlineTitle, ok := b.ChapterTitle(req.ChapterNumber); ok {
		if title == "" {
			title = outlineTitle
		}
	} else {
		return nil, apperrors.ErrInvalidParam.WithDetail(
			fmt.Sprintf("chapter number must be between 1 and %d", len(b.ChapterTitles)))
	}
	voice, err := voiceFor(b.Industry)
	if err != nil {
		return nil, err
	}

	result := &ContentResult{}
	forbidden, err := s.forbiddenPatterns(ctx, b.ID)
	if err != nil {
		result.fail(ctx, EffectPatternRead, err)
	}

	text, err := s.stages.Content.Invoke(ctx, &wfmodel.ContentInput{
		Voice:             voice,
		BookTitle:         b.Title,
		BookSubtitle:      b.Subtitle,
		ChapterNumber:     req.ChapterNumber,
		TotalChapters:     len(b.ChapterTitles),
		ChapterTitle:      title,
		PreviousSummary:   s.previousSummary(b, req.ChapterNumber),
		ForbiddenPatterns: forbidden,
		IsRevision:        req.Revision > 0,
		RevisionGuidance:  req.RevisionGuidance,
	})
	if err != nil {
		return nil, err
	}

	rec := entity.NewChapterRecord(req.ChapterNumber, title, text, req.Revision)
	result.Record = rec
	metrics.ChapterWordCount.Observe(float64(rec.WordCount))

	pattern := entity.NewOpeningPattern(b.ID, rec.Number, node.OpeningExcerpt(text, 3, 300))
	if err := s.patterns.Append(ctx, pattern); err != nil {
		result.fail(ctx, EffectPatternAppend, err)
	}

	if req.Deferred {
		return result, nil
	}
	if _, err := s.Mutate(ctx, b.ID, func(b *entity.Book) error {
		b.PutChapter(rec)
		b.LastEditedBy = req.EditedBy
		b.Completed = b.IsComplete()
		return nil
	}); err != nil {
		result.fail(ctx, EffectChapterWrite, err)
	} else {
		result.Persisted = true
	}

	return result, nil
}

// ReviewRequest 审稿参数；提供 BookID 时附带前 1-2 章供连贯性判断
type ReviewRequest struct {
	BookID        string
	ChapterNumber int
	ChapterTitle  string
	Content       string
}

// Review 审稿
func (s *Service) Review(ctx context.Context, req ReviewRequest) (*entity.ReviewVerdict, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("content is required")
	}

	in := &wfmodel.ReviewInput{
		ChapterNumber: req.ChapterNumber,
		ChapterTitle:  req.ChapterTitle,
		Content:       req.Content,
	}
	if req.BookID != "" && req.ChapterNumber > 1 {
		b, err := s.Get(ctx, req.BookID)
		if err != nil {
			return nil, err
		}
		for _, prev := range b.Chapters.Before(req.ChapterNumber, 2) {
			in.Previous = append(in.Previous, wfmodel.PriorChapter{
				Number:  prev.Number,
				Title:   prev.Title,
				Excerpt: node.TruncateByRunes(prev.Content, s.opts.SummaryRunes),
			})
		}
	}

	verdict, err := s.stages.Review.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.ReviewVerdicts.WithLabelValues(fmt.Sprintf("%t", verdict.RequiresRevision)).Inc()
	return verdict, nil
}

func (s *Service) forbiddenPatterns(ctx context.Context, bookID string) ([]string, error) {
	records, err := s.patterns.ListRecent(ctx, bookID, s.opts.PatternWindow)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(records))
	for _, r := range records {
		if t := strings.TrimSpace(r.PatternText); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) previousSummary(b *entity.Book, chapter int) string {
	prev := b.Chapters.Before(chapter, s.opts.SummaryChapters)
	if len(prev) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range prev {
		fmt.Fprintf(&sb, "Chapter %d: %s\n%s\n\n", p.Number, p.Title, node.TruncateByRunes(p.Content, s.opts.SummaryRunes))
	}
	return strings.TrimSpace(sb.String())
}
