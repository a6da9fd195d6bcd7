package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rvconnect/backend/internal/config"
	"github.com/rvconnect/backend/internal/infra/mailer"
	s3infra "github.com/rvconnect/backend/internal/infra/s3"
	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
	redrepo "github.com/rvconnect/backend/internal/repo/redis"
	authsvc "github.com/rvconnect/backend/internal/services/auth"
	chatsvc "github.com/rvconnect/backend/internal/services/chat"
	feedsvc "github.com/rvconnect/backend/internal/services/feed"
	gatesvc "github.com/rvconnect/backend/internal/services/gate"
	matchessvc "github.com/rvconnect/backend/internal/services/matches"
	mediasvc "github.com/rvconnect/backend/internal/services/media"
	profilessvc "github.com/rvconnect/backend/internal/services/profiles"
	swipessvc "github.com/rvconnect/backend/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	feedRepo := pgrepo.NewFeedRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	var smtpMailer *mailer.SMTP
	if m, err := mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}); err != nil {
		log.Warn("smtp init failed, confirmation mail disabled", zap.Error(err))
	} else {
		smtpMailer = m
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL, cfg.Auth.ConfirmTTL)
	authDeps := authsvc.Dependencies{
		JWT:      jwtManager,
		Users:    userRepo,
		Sessions: sessionRepo,
		Logger:   log,
	}
	if smtpMailer != nil {
		authDeps.Mailer = smtpMailer
	}
	authService := authsvc.NewService(authDeps, cfg.Auth.RefreshTTL, authsvc.Config{
		EmailDomain:     cfg.App.EmailDomain,
		MinPasswordLen:  cfg.App.MinPasswordLen,
		FrontendBaseURL: cfg.App.FrontendBaseURL,
	})

	profileService := profilessvc.NewService(profileRepo)
	gateService := gatesvc.NewService(profileRepo)
	feedService := feedsvc.NewService(feedRepo, cfg.App.FeedPageSize)
	swipeService := swipessvc.NewService(swipessvc.Dependencies{
		Pool:       pool,
		SwipeStore: swipeRepo,
		MatchStore: matchRepo,
	})
	matchesService := matchessvc.NewService(matchRepo)
	chatHub := chatsvc.NewHub()
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Messages: messageRepo,
		Matches:  matchesService,
		Hub:      chatHub,
	})

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	mediaService := mediasvc.NewService(profileRepo, mediaStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ProfileService: profileService,
		GateService:    gateService,
		FeedService:    feedService,
		SwipeService:   swipeService,
		MatchService:   matchesService,
		ChatService:    chatService,
		MediaService:   mediaService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
