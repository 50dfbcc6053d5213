package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/email"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/handler"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/hashing"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/repository"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/config"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Dir)
	ctx := context.Background()

	client, db, err := repository.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.LogError("failed to connect to mongodb", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.LogWarn("failed to ensure indexes", "error", err.Error())
	}
	logger.LogInfo("connected to mongodb", "database", cfg.MongoDatabase)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.LogError("failed to connect to redis", err)
		os.Exit(1)
	}
	logger.LogInfo("connected to redis", "address", cfg.RedisAddress)

	users := repository.NewUserRepository(db)
	teachers := repository.NewTeacherRepository(db)
	students := repository.NewStudentRepository(db)
	parents := repository.NewParentRepository(db)
	grades := repository.NewGradeRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	routes := repository.NewBusRouteRepository(db)
	audit := repository.NewAuditRepository(db, config.BreakerMongo)

	sessions := session.NewRedisStore(redisClient)
	cookies := session.NewCookies(cfg.SessionCookie, cfg.SecretKey, cfg.SecureCookies())
	hasher := hashing.New(0)

	var mailer ports.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = email.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom)
	} else {
		logger.LogWarn("SENDGRID_API_KEY not set, reset emails are written to the log")
		mailer = email.NewConsoleMailer(cfg.MailFrom)
	}

	authService := services.NewAuthService(users, teachers, sessions, hasher, cfg.SessionTTL)
	resetService := services.NewPasswordResetService(users, hasher, mailer, services.NewResetTokens(cfg.SecretKey), cfg.BaseURL)
	rosterService := services.NewRosterService(teachers, students)
	gradeService := services.NewGradeService(grades, teachers, time.Now)
	attendanceService := services.NewAttendanceService(attendance, time.Now)
	scheduleService := services.NewScheduleService(students, teachers, routes)
	profileService := services.NewProfileService(students, parents, teachers)
	adminService := services.NewAdminService(users, audit, hasher)

	pages := handler.MustRenderer()
	router := handler.Router{
		Auth:      middleware.NewAuthMiddleware(authService, cookies),
		AuthPages: handler.NewAuthHandler(authService, resetService, cookies, pages),
		Health: handler.NewHealthHandler(
			handler.PingFunc(func(ctx context.Context) error { return repository.Ping(ctx, client) }),
			sessions,
		),
		Student:    handler.NewStudentHandler(gradeService, scheduleService, profileService, pages),
		Teacher:    handler.NewTeacherHandler(rosterService, gradeService, attendanceService, scheduleService, profileService, pages),
		Parent:     handler.NewParentHandler(profileService, gradeService, attendanceService, scheduleService, pages),
		Admin:      handler.NewAdminHandler(adminService, pages),
		CORS:       cfg.CORSAllowedOrigins,
		LoginLimit: cfg.LoginRateLimit,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.LogInfo("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("could not start server", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.LogInfo("received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("error shutting down server", err)
	}
	logger.LogInfo("shutdown complete")
}
