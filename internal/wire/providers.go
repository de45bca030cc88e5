package wire

import (
	"context"
	"fmt"
	"os"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/application/community"
	"satire-press-api/internal/application/pipeline"
	"satire-press-api/internal/application/ratelimit"
	"satire-press-api/internal/config"
	"satire-press-api/internal/domain/repository"
	"satire-press-api/internal/infrastructure/llm"
	"satire-press-api/internal/infrastructure/messaging"
	"satire-press-api/internal/infrastructure/persistence/postgres"
	"satire-press-api/internal/infrastructure/persistence/redis"
	"satire-press-api/internal/interfaces/http/handler"
	"satire-press-api/internal/interfaces/http/middleware"
	"satire-press-api/internal/workflow/chain"
	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	"satire-press-api/pkg/logger"
	"satire-press-api/pkg/utils"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient *postgres.Client
	Users    repository.UserRepository
}

// Pipeline 命令行使用的生成流水线
type Pipeline struct {
	Books        *book.Service
	Orchestrator *pipeline.Orchestrator
}

// Worker 后台任务进程依赖
type Worker struct {
	Consumer *messaging.Consumer
	Producer *messaging.Producer
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端（必需）
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 未启用或不可达时返回 nil，缓存、共享限流与后台任务随之降级
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func()) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, cache and background jobs disabled", "error", err.Error())
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideListCache 排行榜缓存；无 Redis 时直读数据库
func ProvideListCache(client *redis.Client) community.ListCache {
	if client == nil {
		return nil
	}
	return redis.NewCache(client)
}

// ProvideRateLimiter 社区接口限流器；store=redis 且 Redis 可用时多实例共享计数
func ProvideRateLimiter(ctx context.Context, cfg *config.Config, client *redis.Client) *ratelimit.Limiter {
	rl := cfg.Community.RateLimit
	if !rl.Enabled {
		return nil
	}

	var store ratelimit.CounterStore
	switch {
	case rl.Store == "redis" && client != nil:
		store = redis.NewCounterStore(client)
	case rl.Store == "redis":
		logger.Warn(ctx, "redis rate limit store requested but redis is unavailable, using memory store")
		store = ratelimit.NewMemoryStore(rl.Window)
	default:
		store = ratelimit.NewMemoryStore(rl.Window)
	}
	return ratelimit.NewLimiter(store, rl.Limit, rl.Window, ratelimit.WithScope("community"))
}

// ProvideMessagingProducer 提供消息生产者；无 Redis 时为 nil
func ProvideMessagingProducer(cfg *config.Config, client *redis.Client) *messaging.Producer {
	if client == nil {
		return nil
	}
	return messaging.NewProducer(client.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvidePublisher 章节定稿事件发布器
func ProvidePublisher(p *messaging.Producer) pipeline.Publisher {
	if p == nil {
		return nil
	}
	return p
}

// ProvideAutorunQueue 后台整书任务队列
func ProvideAutorunQueue(p *messaging.Producer) handler.AutorunQueue {
	if p == nil {
		return nil
	}
	return p
}

// ProvideTextGenerator 提供生成客户端
func ProvideTextGenerator(cfg *config.Config, factory *llm.EinoFactory) workflowport.TextGenerator {
	return llm.NewClient(factory, cfg.LLM.DefaultProvider)
}

func stageParams(sc config.StageConfig) wfmodel.StageParams {
	return wfmodel.StageParams{
		Provider:    sc.Provider,
		Model:       sc.Model,
		Temperature: float32(sc.Temperature),
		MaxTokens:   sc.MaxTokens,
	}
}

// ProvideStages 按配置组装各阶段调用链
func ProvideStages(cfg *config.Config, gen workflowport.TextGenerator, prompts *workflowprompt.Registry, rnd workflowport.Random) (book.Stages, error) {
	g := cfg.Generation
	review, err := chain.NewReviewChain(gen, prompts, stageParams(g.Review))
	if err != nil {
		return book.Stages{}, err
	}
	return book.Stages{
		Title:   chain.NewTitleChain(gen, prompts, stageParams(g.Title)),
		Outline: chain.NewOutlineChain(gen, prompts, stageParams(g.Outline.StageConfig)),
		Content: chain.NewContentChain(gen, prompts, stageParams(g.Content.StageConfig), chain.ContentPolicy{
			TemperatureStep: float32(g.Content.TemperatureStep),
			TemperatureCap:  float32(g.Content.TemperatureCap),
			RetryAttempts:   g.Content.RetryAttempts,
			RetryDelay:      g.Content.RetryDelay,
		}, rnd),
		Review: review,
	}, nil
}

// ProvideRandom 默认随机源
func ProvideRandom() workflowport.Random {
	return utils.Random{}
}

// ProvideBookService 提供图书应用服务
func ProvideBookService(cfg *config.Config, books repository.BookRepository, patterns repository.PatternRepository, stages book.Stages, rnd workflowport.Random) *book.Service {
	g := cfg.Generation
	return book.NewService(books, patterns, stages, rnd, book.Options{
		PatternWindow:   g.PatternWindow,
		SummaryChapters: g.SummaryChapters,
		SummaryRunes:    g.SummaryRunes,
		MinChapters:     g.Outline.MinChapters,
		MaxChapters:     g.Outline.MaxChapters,
	})
}

// ProvideOrchestrator 提供章节编排器
func ProvideOrchestrator(cfg *config.Config, svc *book.Service, pub pipeline.Publisher) *pipeline.Orchestrator {
	opts := []pipeline.Option{pipeline.WithMaxAttempts(cfg.Generation.MaxAttempts)}
	if pub != nil {
		opts = append(opts, pipeline.WithPublisher(pub))
	}
	return pipeline.NewOrchestrator(svc, svc, svc, opts...)
}

// ProvideCommunityService 提供社区标题服务
func ProvideCommunityService(cfg *config.Config, titles repository.TitleRepository, svc *book.Service, cache community.ListCache) *community.Service {
	return community.NewService(titles, svc, cache, cfg.Community.ListCacheTTL)
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:  cfg.Security.JWT.Secret,
		Issuer:  cfg.Security.JWT.Issuer,
		Enabled: true,
	}
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(cfg *config.Config, auth middleware.AuthConfig, users repository.UserRepository) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, cfg.Security.JWT.Expiration, users)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rc *redis.Client) *handler.HealthHandler {
	var redisPinger handler.Pinger
	if rc != nil {
		redisPinger = rc
	}
	return handler.NewHealthHandler(cfg.App.Version, pg, redisPinger)
}

// ProvideAutorunConsumer 整书任务消费者
func ProvideAutorunConsumer(cfg *config.Config, client *redis.Client, orch *pipeline.Orchestrator) *messaging.Consumer {
	rs := cfg.Messaging.RedisStream
	consumer := messaging.NewConsumer(client.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamBookAutorun,
		Group:         messaging.GroupName(rs.ConsumerGroupPrefix, "autorun"),
		ConsumerName:  consumerName(),
		BlockTimeout:  rs.BlockTimeout,
		ClaimInterval: rs.ClaimInterval,
		RetryLimit:    rs.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    rs.RetryBackoff.Initial,
			Max:        rs.RetryBackoff.Max,
			Multiplier: rs.RetryBackoff.Multiplier,
		},
	})
	consumer.RegisterHandler(messaging.TypeBookAutorun, messaging.NewAutorunHandler(orch))
	return consumer
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
