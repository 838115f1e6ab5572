package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "fcreport/backend/libs/db"
	libredis "fcreport/backend/libs/redis"
	appconfig "fcreport/backend/services/report-service/internal/config"
	httpserver "fcreport/backend/services/report-service/internal/http"
	"fcreport/backend/services/report-service/internal/http/handlers"
	"fcreport/backend/services/report-service/internal/http/middleware"
	"fcreport/backend/services/report-service/internal/pipeline"
	redisstore "fcreport/backend/services/report-service/internal/redis"
	"fcreport/backend/services/report-service/internal/repository"
	"fcreport/backend/services/report-service/internal/service"
)

// App wires dependencies for the report service.
type App struct {
	server  *httpserver.Server
	handler http.Handler
	service *service.ReportService
	db      *sql.DB
	redis   *redis.Client
	logger  *zap.Logger
}

// New builds application graph. Redis and Postgres are optional: without them uploads
// live in process memory and report history is unavailable.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	pipeCfg, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}

	var uploads service.UploadStore
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("app: redis: %w", err)
		}
		a.redis = client
		uploads = redisstore.NewStore(client, cfg.UploadTTL())
		logger.Info("upload store: redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.UploadTTL()))
	} else {
		uploads = service.NewMemoryStore(cfg.UploadTTL())
		logger.Info("upload store: memory", zap.Duration("ttl", cfg.UploadTTL()))
	}

	var runs service.RunRepository
	if cfg.Database.DSN != "" {
		sqlDB, err := libdb.NewPostgresDB(ctx, cfg.Database.DSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: postgres: %w", err)
		}
		a.db = sqlDB
		repo := repository.NewReportRunRepository(sqlDB)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: schema: %w", err)
		}
		runs = repo
	} else {
		logger.Info("report history disabled: no database configured")
	}

	a.service = service.NewReportService(pipeline.New(pipeCfg), uploads, runs, logger)

	var apiAuth func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		apiAuth = middleware.AuthMiddleware(service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration()))
	}

	routes := httpserver.Routes{
		Upload:       handlers.NewUploadHandler(a.service, cfg.MaxUploadBytes()),
		Dates:        handlers.NewDatesHandler(a.service),
		Summary:      handlers.NewSummaryHandler(a.service),
		Charts:       handlers.NewChartsHandler(a.service),
		Report:       handlers.NewReportHandler(a.service),
		DeleteUpload: handlers.NewDeleteUploadHandler(a.service),
		History:      handlers.NewHistoryHandler(a.service),
		Health:       handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, apiAuth)
	a.handler = middleware.Chain(router,
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)
	a.server = httpserver.NewServer(cfg.HTTPAddress(), a.handler, logger)

	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
