package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"satire-press-api/internal/application/pipeline"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

var _ pipeline.Publisher = (*Producer)(nil)

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	msg.carryContext(ctx)
	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// EnqueueAutorun 投递整书自动生成任务，返回任务 ID
func (p *Producer) EnqueueAutorun(ctx context.Context, bookID, requestedBy string) (string, error) {
	job := &AutorunJob{
		JobID:       uuid.NewString(),
		BookID:      bookID,
		RequestedBy: requestedBy,
	}
	msg, err := NewMessage(job.JobID, TypeBookAutorun, bookID, job)
	if err != nil {
		return "", err
	}
	if _, err := p.Publish(ctx, StreamBookAutorun, msg); err != nil {
		return "", err
	}
	return job.JobID, nil
}

// PublishChapterAccepted 发布章节定稿事件
func (p *Producer) PublishChapterAccepted(ctx context.Context, evt *pipeline.ChapterAccepted) error {
	id := fmt.Sprintf("%s:%d", evt.BookID, evt.ChapterNumber)
	msg, err := NewMessage(id, TypeChapterAccepted, evt.BookID, evt)
	if err != nil {
		return err
	}
	msg.SetMetadata("attempts", fmt.Sprintf("%d", evt.Attempts))
	_, err = p.Publish(ctx, StreamChapterAccepted, msg)
	return err
}
