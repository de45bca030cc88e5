// Package community 提供公共标题生成与投票
package community

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
	apperrors "satire-press-api/pkg/errors"
	"satire-press-api/pkg/logger"
)

// TitleGenerator 标题阶段
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, req book.TitleRequest) (*book.TitleResult, error)
}

// ListCache 排行榜读穿缓存
type ListCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) ([]byte, error)
	CommunityListKey(page, pageSize int) string
	InvalidateCommunityList(ctx context.Context) error
}

// Service 社区标题服务
type Service struct {
	titles repository.TitleRepository
	gen    TitleGenerator
	cache  ListCache
	ttl    time.Duration
}

// NewService 创建社区标题服务；cache 可为 nil
func NewService(titles repository.TitleRepository, gen TitleGenerator, cache ListCache, ttl time.Duration) *Service {
	return &Service{titles: titles, gen: gen, cache: cache, ttl: ttl}
}

// ClientKey 将客户端 IP 散列为存储用的键
func ClientKey(ip string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(sum[:16])
}

// Generate 为行业生成一个标题并保存为候选
func (s *Service) Generate(ctx context.Context, industryKey, clientIP string) (*entity.TitleSubmission, error) {
	out, err := s.gen.GenerateTitle(ctx, book.TitleRequest{Industry: industryKey})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Title) == "" {
		return nil, apperrors.ErrGenerationFailed.WithDetail("model returned no title")
	}

	sub := entity.NewTitleSubmission(out.Title, out.Subtitle, out.Industry, out.Context, ClientKey(clientIP))
	if err := s.titles.Create(ctx, sub); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save title")
	}
	s.invalidate(ctx)
	return sub, nil
}

// List 按票数倒序列出候选标题
func (s *Service) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.TitleSubmission], error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.load(ctx, page)
	}

	raw, err := s.cache.GetOrLoad(ctx, s.cache.CommunityListKey(page.Page, page.PageSize), s.ttl, func() (any, error) {
		return s.load(ctx, page)
	})
	if err != nil {
		logger.Warn(ctx, "community list cache unavailable", "error", err.Error())
		return s.load(ctx, page)
	}
	var res repository.PagedResult[*entity.TitleSubmission]
	if err := json.Unmarshal(raw, &res); err != nil {
		return s.load(ctx, page)
	}
	return &res, nil
}

// VoteResult 投票结果
type VoteResult struct {
	SubmissionID string `json:"id"`
	Votes        int    `json:"votes"`
}

// Vote 每个客户端对同一标题只能投一次
func (s *Service) Vote(ctx context.Context, submissionID, clientIP string) (*VoteResult, error) {
	sub, err := s.titles.GetByID(ctx, submissionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load title")
	}
	if sub == nil {
		return nil, apperrors.ErrSubmissionNotFound
	}

	votes, err := s.titles.Vote(ctx, submissionID, ClientKey(clientIP))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyVoted) {
			return nil, apperrors.ErrAlreadyVoted
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to record vote")
	}
	s.invalidate(ctx)
	return &VoteResult{SubmissionID: submissionID, Votes: votes}, nil
}

func (s *Service) load(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.TitleSubmission], error) {
	res, err := s.titles.ListTop(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list titles")
	}
	return res, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCommunityList(ctx); err != nil {
		logger.Warn(ctx, "failed to invalidate community list cache", "error", err.Error())
	}
}
