// Command studylife-server starts the study-quiz HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/studylife/internal/config"
	pkgcrypto "github.com/and161185/studylife/internal/crypto"
	"github.com/and161185/studylife/internal/identity"
	"github.com/and161185/studylife/internal/limiter"
	"github.com/and161185/studylife/internal/migrate"
	"github.com/and161185/studylife/internal/repository"
	"github.com/and161185/studylife/internal/repository/memory"
	"github.com/and161185/studylife/internal/repository/postgres"
	httpserver "github.com/and161185/studylife/internal/server/http"
	"github.com/and161185/studylife/internal/service"
	"github.com/and161185/studylife/internal/token"
)

const appName = "studylife"

var (
	version   = "dev"
	buildDate = "unknown"
)

// storage bundles the repositories and limiter of one backend.
type storage struct {
	accounts repository.AccountRepository
	notes    repository.NoteRepository
	progress repository.ProgressRepository
	quizzes  repository.QuizRepository
	lim      limiter.Limiter
	close    func()
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv, ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	codec := token.NewCodec([]byte(cfg.JWTKey), cfg.TokenLeeway)
	hasher := pkgcrypto.NewHasher(hashParams(cfg.Hash))

	// Services
	authSvc := service.NewAuthService(st.accounts, hasher, codec, cfg.AccessTTL, st.lim)
	noteSvc := service.NewNoteService(st.notes)
	progressSvc := service.NewProgressService(st.progress)
	quizSvc := service.NewQuizService(st.quizzes, st.progress)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handlers:    httpserver.NewHandlers(authSvc, noteSvc, progressSvc, quizSvc, logger),
		Resolver:    identity.NewResolver(codec, st.accounts),
		Metrics:     httpserver.NewMetrics(),
		Log:         logger,
		CORSOrigins: cfg.CORSOrigins,
		Name:        appName,
		Version:     version,
	})

	srv := httpserver.New(httpserver.Options{
		Addr:            cfg.Addr,
		TLSCert:         cfg.TLSCert,
		TLSKey:          cfg.TLSKey,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router, logger)
	return srv.Run(ctx)
}

// openStorage runs migrations and connects to PostgreSQL, or falls back to
// process memory when no DSN is configured in dev mode.
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storage, error) {
	policy := limiter.Policy{
		Window:   cfg.Limiter.Window,
		MaxFails: cfg.Limiter.MaxFails,
		BlockFor: cfg.Limiter.BlockFor,
	}

	if cfg.DSN == "" {
		logger.Warn("no DSN configured, using in-memory storage")
		ms := memory.NewStore()
		ms.SeedDemo()
		return &storage{
			accounts: ms.Accounts(),
			notes:    ms.Notes(),
			progress: ms.Progress(),
			quizzes:  ms.Quizzes(),
			lim:      limiter.NewMemory(policy),
			close:    func() {},
		}, nil
	}

	v, err := migrate.Up(ctx, cfg.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}
	logger.Info("schema ready", zap.Int64("version", v))

	// DB pool
	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &storage{
		accounts: postgres.NewAccountRepo(db),
		notes:    postgres.NewNoteRepo(db),
		progress: postgres.NewProgressRepo(db),
		quizzes:  postgres.NewQuizRepo(db),
		lim:      limiter.NewPG(db.Pool, policy),
		close:    db.Close,
	}, nil
}

func hashParams(h config.Hash) pkgcrypto.Params {
	p := pkgcrypto.DefaultParams
	p.Time = h.Time
	p.Memory = h.MemoryKiB
	p.Threads = h.Threads
	return p
}
