//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"satire-press-api/internal/config"
	"satire-press-api/internal/domain/repository"
	"satire-press-api/internal/infrastructure/llm"
	"satire-press-api/internal/infrastructure/persistence/postgres"
	"satire-press-api/internal/interfaces/http/handler"
	"satire-press-api/internal/interfaces/http/router"
	workflowprompt "satire-press-api/internal/workflow/prompt"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		RepoSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializePipeline 初始化生成流水线（用于 pressctl）
func InitializePipeline(ctx context.Context, cfg *config.Config) (*Pipeline, func(), error) {
	wire.Build(
		RepoSet,
		OptionalRedisSet,
		MessagingSet,
		GenerationSet,
		wire.Struct(new(Pipeline), "*"),
	)
	return nil, nil, nil
}

// InitializeWorker 初始化后台整书任务进程
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		ProvideRedisClient,
		MessagingSet,
		GenerationSet,
		ProvideAutorunConsumer,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		OptionalRedisSet,
		MessagingSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewBookRepository,
	postgres.NewPatternRepository,
	postgres.NewTitleRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.BookRepository), new(*postgres.BookRepository)),
	wire.Bind(new(repository.PatternRepository), new(*postgres.PatternRepository)),
	wire.Bind(new(repository.TitleRepository), new(*postgres.TitleRepository)),
)

// OptionalRedisSet 可选 Redis（不可达时不阻塞启动）
var OptionalRedisSet = wire.NewSet(
	ProvideRedisClientOptional,
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvidePublisher,
)

// GenerationSet 生成阶段与编排器
var GenerationSet = wire.NewSet(
	llm.NewEinoFactory,
	ProvideTextGenerator,
	workflowprompt.NewRegistry,
	ProvideRandom,
	ProvideStages,
	ProvideBookService,
	ProvideOrchestrator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideListCache,
	ProvideRateLimiter,
	ProvideAutorunQueue,
	ProvideCommunityService,
	ProvideAuthConfig,
	ProvideAuthHandler,
	ProvideHealthHandler,
	handler.NewGenerateHandler,
	handler.NewAdminEditHandler,
	handler.NewBookHandler,
	handler.NewCommunityHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
