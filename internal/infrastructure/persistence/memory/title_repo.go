package memory

import (
	"context"
	"sort"
	"sync"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
)

// TitleRepository 内存社区标题仓储
type TitleRepository struct {
	mu          sync.Mutex
	submissions map[string]*entity.TitleSubmission
	votes       map[string]map[string]struct{}
}

// NewTitleRepository 创建内存社区标题仓储
func NewTitleRepository() *TitleRepository {
	return &TitleRepository{
		submissions: make(map[string]*entity.TitleSubmission),
		votes:       make(map[string]map[string]struct{}),
	}
}

// Create 创建标题
func (r *TitleRepository) Create(_ context.Context, s *entity.TitleSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.submissions[s.ID] = &cp
	return nil
}

// GetByID 根据 ID 获取标题
func (r *TitleRepository) GetByID(_ context.Context, id string) (*entity.TitleSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// ListTop 按票数倒序
func (r *TitleRepository) ListTop(_ context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.TitleSubmission], error) {
	r.mu.Lock()
	all := make([]*entity.TitleSubmission, 0, len(r.submissions))
	for _, s := range r.submissions {
		cp := *s
		all = append(all, &cp)
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Votes != all[j].Votes {
			return all[i].Votes > all[j].Votes
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return repository.NewPagedResult(page(all, pagination), int64(len(all)), pagination), nil
}

// Vote 记录投票
func (r *TitleRepository) Vote(_ context.Context, submissionID, voterKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[submissionID]
	if !ok {
		return 0, nil
	}
	voters, ok := r.votes[submissionID]
	if !ok {
		voters = make(map[string]struct{})
		r.votes[submissionID] = voters
	}
	if _, dup := voters[voterKey]; dup {
		return s.Votes, repository.ErrAlreadyVoted
	}
	voters[voterKey] = struct{}{}
	s.Votes++
	return s.Votes, nil
}
