package repository

import (
	"context"

	"satire-press-api/internal/domain/entity"
)

// TitleRepository 社区标题仓储接口
type TitleRepository interface {
	Create(ctx context.Context, submission *entity.TitleSubmission) error

	// GetByID 不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.TitleSubmission, error)

	// ListTop 按票数倒序分页
	ListTop(ctx context.Context, pagination Pagination) (*PagedResult[*entity.TitleSubmission], error)

	// Vote 记录投票并累加票数；同一 voterKey 重复投票返回 ErrAlreadyVoted
	Vote(ctx context.Context, submissionID, voterKey string) (int, error)
}
