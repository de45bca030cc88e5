package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
)

// TitleRepository 社区标题仓储实现
type TitleRepository struct {
	client *Client
	tx     repository.Transactor
}

// NewTitleRepository 创建社区标题仓储
func NewTitleRepository(client *Client, tx repository.Transactor) *TitleRepository {
	return &TitleRepository{client: client, tx: tx}
}

// Create 创建标题
func (r *TitleRepository) Create(ctx context.Context, submission *entity.TitleSubmission) error {
	ctx, span := tracer.Start(ctx, "postgres.TitleRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(submission).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create title submission: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取标题
func (r *TitleRepository) GetByID(ctx context.Context, id string) (*entity.TitleSubmission, error) {
	ctx, span := tracer.Start(ctx, "postgres.TitleRepository.GetByID")
	defer span.End()

	var s entity.TitleSubmission
	if err := getDB(ctx, r.client.db).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get title submission: %w", err)
	}
	return &s, nil
}

// ListTop 按票数倒序
func (r *TitleRepository) ListTop(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.TitleSubmission], error) {
	ctx, span := tracer.Start(ctx, "postgres.TitleRepository.ListTop")
	defer span.End()

	query := getDB(ctx, r.client.db).Model(&entity.TitleSubmission{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count title submissions: %w", err)
	}

	var items []*entity.TitleSubmission
	if err := query.Order("votes DESC").Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&items).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list title submissions: %w", err)
	}
	return repository.NewPagedResult(items, total, pagination), nil
}

// Vote 写入投票记录并累加票数（同一事务）
func (r *TitleRepository) Vote(ctx context.Context, submissionID, voterKey string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.TitleRepository.Vote")
	defer span.End()

	var votes int
	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.client.db)

		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.TitleVote{SubmissionID: submissionID, VoterKey: voterKey})
		if res.Error != nil {
			return fmt.Errorf("failed to insert vote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrAlreadyVoted
		}

		var s entity.TitleSubmission
		if err := db.Model(&s).
			Clauses(clause.Returning{Columns: []clause.Column{{Name: "votes"}}}).
			Where("id = ?", submissionID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment votes: %w", err)
		}
		votes = s.Votes
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrAlreadyVoted) {
		span.RecordError(err)
	}
	return votes, err
}
