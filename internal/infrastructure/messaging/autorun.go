package messaging

import (
	"context"
	"errors"
	"fmt"

	"satire-press-api/internal/application/pipeline"
	apperrors "satire-press-api/pkg/errors"
	"satire-press-api/pkg/logger"
)

// BookRunner 逐章跑完整本书
type BookRunner interface {
	RunAll(ctx context.Context, bookID, editedBy string) ([]*pipeline.Outcome, error)
}

// NewAutorunHandler 处理整书自动生成任务。
// 已完成的书直接确认；书不存在或缺少大纲不会因重试而改变，直接进入死信队列。
// 中途失败后重投会从游标处继续，已定稿的章节不会重复生成。
func NewAutorunHandler(runner BookRunner) MessageHandler {
	return func(ctx context.Context, msg *Message) error {
		var job AutorunJob
		if err := msg.UnmarshalPayload(&job); err != nil {
			return Permanent(fmt.Errorf("decode autorun job: %w", err))
		}
		if job.BookID == "" {
			return Permanent(fmt.Errorf("autorun job %s has no book id", job.JobID))
		}
		editedBy := job.RequestedBy
		if editedBy == "" {
			editedBy = "autorun"
		}

		outcomes, err := runner.RunAll(ctx, job.BookID, editedBy)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrBookCompleted):
			err = nil
		case errors.Is(err, apperrors.ErrBookNotFound), errors.Is(err, apperrors.ErrInvalidParam):
			return Permanent(err)
		default:
			logger.Warn(ctx, "autorun interrupted",
				"job_id", job.JobID,
				"chapters_done", len(outcomes),
			)
			return err
		}

		logger.Info(ctx, "autorun finished",
			"job_id", job.JobID,
			"chapters_done", len(outcomes),
		)
		return nil
	}
}
