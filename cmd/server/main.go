package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smilecare.backend/internal/config"
	"smilecare.backend/internal/infrastructure/datasources/postgres"
	"smilecare.backend/internal/infrastructure/jobs"
	"smilecare.backend/internal/infrastructure/notification"
	"smilecare.backend/internal/infrastructure/repositories"
	"smilecare.backend/internal/infrastructure/social"
	"smilecare.backend/internal/infrastructure/storage"
	"smilecare.backend/internal/interfaces/http/handlers"
	"smilecare.backend/internal/interfaces/http/middleware"
	"smilecare.backend/internal/interfaces/http/upload"
	"smilecare.backend/internal/interfaces/websocket"
	"smilecare.backend/internal/usecases"
	"smilecare.backend/pkg/jwt"
	"smilecare.backend/pkg/logger"
	"smilecare.backend/pkg/redis"
)

const (
	shutdownTimeout         = 10 * time.Second
	expiredSessionRetention = 24 * time.Hour
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = postgres.NewConnection
	migrateDB  = postgres.Migrate
	newStorage = storage.New
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	runServer  = serve
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLog(cfg.Server.Env)
	if cfg.Server.LogLevel != "" {
		if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
			logger.Warn(context.Background(), "Ignoring LOG_LEVEL", zap.Error(err))
		}
	}
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := migrateDB(db); err != nil {
		return err
	}
	logger.Info(context.Background(), "Database migrated")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshRepo := repositories.NewRefreshTokenRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	providerRepo := repositories.NewProviderRepository(db)
	feeRepo := repositories.NewProviderFeeRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	procedureRepo := repositories.NewProcedureRepository(db)
	treatmentPlanRepo := repositories.NewTreatmentPlanRepository(db)
	ticketRepo := repositories.NewSupportTicketRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	uow := repositories.NewUnitOfWork(db)

	hub := websocket.NewHub(userRepo)
	go hub.Run(ctx)

	cleanupJob := jobs.NewSessionCleanupJob(map[string]jobs.ExpiredPurger{
		"otp_verifications": otpRepo,
		"refresh_tokens":    refreshRepo,
	}, jobs.DefaultCleanupInterval, expiredSessionRetention)
	go cleanupJob.Start(ctx)

	var verifier usecases.SocialVerifier
	if cfg.Social.VerifyTokens {
		verifier = social.NewService(cfg.Social)
	}
	cooldown := redis.NewCooldownStore("otp:cooldown", cfg.OTP.ResendCooldown)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, refreshRepo, jwtService, verifier)
	otpUsecase := usecases.NewOTPUsecase(otpRepo, userRepo, refreshRepo, authUsecase, notification.NewDispatcher(cfg), cooldown, cfg.OTP)
	userUsecase := usecases.NewUserUsecase(userRepo, refreshRepo)
	providerUsecase := usecases.NewProviderUsecase(providerRepo, userRepo, procedureRepo, feeRepo, uow)
	patientUsecase := usecases.NewPatientUsecase(patientRepo, userRepo)
	appointmentUsecase := usecases.NewAppointmentUsecase(appointmentRepo, userRepo)
	paymentUsecase := usecases.NewPaymentUsecase(paymentRepo)
	documentUsecase := usecases.NewDocumentUsecase(documentRepo)
	planUsecase := usecases.NewPlanUsecase(planRepo)
	procedureUsecase := usecases.NewProcedureUsecase(procedureRepo)
	treatmentPlanUsecase := usecases.NewTreatmentPlanUsecase(treatmentPlanRepo, userRepo)
	ticketUsecase := usecases.NewSupportTicketUsecase(ticketRepo)
	chatUsecase := usecases.NewChatUsecase(chatRepo, userRepo, hub)

	uploads := upload.NewManager(store)

	r := newRouter(cfg, routeDeps{
		authHandler:          handlers.NewAuthHandler(authUsecase, otpUsecase, uploads),
		userHandler:          handlers.NewUserHandler(userUsecase, uploads),
		providerHandler:      handlers.NewProviderHandler(providerUsecase, uploads),
		patientHandler:       handlers.NewPatientHandler(patientUsecase),
		appointmentHandler:   handlers.NewAppointmentHandler(appointmentUsecase),
		paymentHandler:       handlers.NewPaymentHandler(paymentUsecase),
		documentHandler:      handlers.NewDocumentHandler(documentUsecase, uploads),
		catalogHandler:       handlers.NewCatalogHandler(planUsecase, procedureUsecase),
		treatmentPlanHandler: handlers.NewTreatmentPlanHandler(treatmentPlanUsecase),
		ticketHandler:        handlers.NewSupportTicketHandler(ticketUsecase),
		chatHandler:          handlers.NewChatHandler(chatUsecase),
		chatSocket:           hub.ServeWS,
		authMiddleware:       middleware.AuthMiddleware(jwtService, userRepo),
		socketAuthMiddleware: middleware.QueryTokenAuthMiddleware(jwtService, userRepo),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(ctx, "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(ctx, srv)
}

// serve runs until the listener fails or ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
