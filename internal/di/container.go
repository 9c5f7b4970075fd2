package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	httpadapter "workspace-migrator/internal/migration/adapter/http"
	"workspace-migrator/internal/migration/adapter/mongosnapshot"
	"workspace-migrator/internal/migration/adapter/persistence"
	"workspace-migrator/internal/migration/adapter/relationalapi"
	"workspace-migrator/internal/migration/adapter/workspaceapi"
	"workspace-migrator/internal/migration/config"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/migration/usecase"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

// Container wires the engine's adapters and usecases with proper lifecycle
// management. Built once per process invocation.
type Container struct {
	Config *config.Config
	Logger logger.Logger

	// Stores
	Source repository.SourceStore
	Target repository.TargetStore

	// Usecases
	Registry     *usecase.JobRegistry
	Pipeline     *usecase.Pipeline
	Orchestrator *usecase.BatchOrchestrator
	Linker       *usecase.RelationLinker
	Reporter     *usecase.Reporter

	// Optional infrastructure
	History repository.RunHistory
	Ledger  repository.OwnershipLedger

	mongoClient *mongo.Client
	redisClient *redis.Client
	zapLogger   *zap.Logger
}

// NewContainer builds the full engine from configuration.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger.NewLogger(),
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return nil, apperrors.WrapError(err, "initialize zap logger")
	}
	c.zapLogger = zapLogger

	if err := c.initSource(ctx, cfg); err != nil {
		return nil, err
	}
	c.initTarget(cfg)

	history, err := persistence.NewSQLiteRunHistory(cfg.Engine.HistoryPath, c.Logger)
	if err != nil {
		// History is best-effort; the JSON artifacts remain authoritative.
		c.Logger.Warnf("run history disabled: %v", err)
	} else {
		c.History = history
	}

	if cfg.LedgerEnabled() {
		c.redisClient = persistence.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.Database)
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			return nil, apperrors.NewInfrastructureError("ping redis ownership ledger").
				WithCause(err).WithComponent("redis")
		}
		c.Ledger = persistence.NewRedisOwnershipLedger(c.redisClient, zapLogger)
		c.Logger.Infof("ownership ledger enabled at %s", cfg.Redis.Addr)
	}

	reportStore := persistence.NewFileReportStore(cfg.Engine.ReportDir, c.Logger)
	c.Reporter = usecase.NewReporter(reportStore, c.History, c.Logger)

	provisioner := usecase.NewSchemaProvisioner(c.Target, c.Logger)
	c.Pipeline = usecase.NewPipeline(
		c.Source, c.Target, provisioner, c.Reporter,
		cfg.Engine.PageSize, cfg.Engine.BatchSize, cfg.Engine.BatchDelay,
		c.Logger,
	)

	c.Registry = usecase.NewJobRegistry(usecase.DatabaseIDs{
		Companies:       cfg.Databases.Companies,
		Projects:        cfg.Databases.Projects,
		Tasks:           cfg.Databases.Tasks,
		Invoices:        cfg.Databases.Invoices,
		Budgets:         cfg.Databases.Budgets,
		ComplianceItems: cfg.Databases.ComplianceItems,
	})
	c.Orchestrator = usecase.NewBatchOrchestrator(
		c.Pipeline, c.Registry, c.Reporter,
		cfg.Engine.FailFast, cfg.Engine.JobDelay,
		c.Logger,
	)
	c.Linker = usecase.NewRelationLinker(c.Target, provisioner, c.Ledger, c.Logger)

	return c, nil
}

func (c *Container) initSource(ctx context.Context, cfg *config.Config) error {
	switch cfg.Source.Mode {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Source.MongoURI))
		if err != nil {
			return apperrors.NewInfrastructureError("connect to snapshot MongoDB").
				WithCause(err).WithComponent("mongosnapshot")
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			return apperrors.NewInfrastructureError("ping snapshot MongoDB").
				WithCause(err).WithComponent("mongosnapshot")
		}
		c.mongoClient = client
		c.Source = mongosnapshot.NewSnapshotStore(client.Database(cfg.Source.MongoDatabase), c.Logger)
		c.Logger.Infof("source: mongo snapshot %s", cfg.Source.MongoDatabase)
	default:
		c.Source = workspaceapi.NewClient(cfg.Source.APIURL, cfg.Source.Token, cfg.Source.APIVersion, c.Logger)
		c.Logger.Infof("source: workspace API %s", cfg.Source.APIURL)
	}
	return nil
}

func (c *Container) initTarget(cfg *config.Config) {
	if cfg.Target.JWTSecret != "" {
		c.Target = relationalapi.NewClientWithJWT(cfg.Target.APIURL, cfg.Target.JWTSecret, cfg.Target.JWTTTL, c.Logger)
		return
	}
	c.Target = relationalapi.NewClient(cfg.Target.APIURL, cfg.Target.Token, c.Logger)
}

// ReportServer builds the read-only report HTTP server.
func (c *Container) ReportServer() *httpadapter.ReportServer {
	return httpadapter.NewReportServer(c.Config.Engine.ReportDir, c.History, c.zapLogger)
}

// Close releases database connections and flushes loggers.
func (c *Container) Close() error {
	var firstErr error

	if c.History != nil {
		if err := c.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.zapLogger != nil {
		_ = c.zapLogger.Sync()
	}
	return firstErr
}
