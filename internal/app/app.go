package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Anaswara-Rajesh/kanban-board/internal/config"
	"github.com/Anaswara-Rajesh/kanban-board/internal/repo"
	"github.com/Anaswara-Rajesh/kanban-board/internal/service"
	"github.com/Anaswara-Rajesh/kanban-board/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type App struct {
	cfg    config.Config
	logger *log.Logger
	db     *pgxpool.Pool
	redis  *redis.Client
	board  *service.BoardService
	router *gin.Engine
}

// New opens the configured store, loads the board and builds the router.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	kv, err := a.openStore(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	taskRepo := repo.NewKVTaskRepo(kv, cfg.Store.Key, logger)
	logger.WithFields(log.Fields{"backend": cfg.Store.Backend, "key": taskRepo.Key()}).Info("loading board")
	a.board = service.NewBoardService(taskRepo, logger,
		service.WithPersistTimeout(cfg.Store.PersistTimeout.Duration()))
	if err := a.board.Init(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("load board: %w", err)
	}

	a.router = newRouter(cfg, a.board, logger)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Board() *service.BoardService {
	return a.board
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (repo.KV, error) {
	entry := a.logger.WithField("backend", a.cfg.Store.Backend)
	switch a.cfg.Store.Backend {
	case config.BackendRedis:
		rdb, err := newRedis(a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		entry.WithField("addr", a.cfg.Redis.Addr).Info("store ready")
		return repo.NewRedisKV(rdb), nil
	case config.BackendPostgres:
		if err := runMigrations(a.cfg.PG.DSN); err != nil {
			return nil, err
		}
		db, err := newPostgres(a.cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		entry.Info("store ready")
		return repo.NewPostgresKV(db), nil
	case config.BackendAzTables:
		kv, err := repo.NewTableKV(ctx, a.cfg.AzTable.ConnectionString, a.cfg.AzTable.Table)
		if err != nil {
			return nil, fmt.Errorf("aztables: %w", err)
		}
		entry.WithField("table", a.cfg.AzTable.Table).Info("store ready")
		return kv, nil
	default:
		entry.Warn("using in-memory store, the board is lost on restart")
		return repo.NewMemoryKV(), nil
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, board *service.BoardService, logger log.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, board)
	return r
}
