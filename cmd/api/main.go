// @title Online Course API
// @version 1.0
// @description Course catalogue, enrollment, exams and the staff back-office.
// @host localhost:8090
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize. Browsers use the session cookie.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "onlinecourse/cmd/api/docs"
	"onlinecourse/internal/adapter"
	"onlinecourse/internal/adapter/storage"
	"onlinecourse/internal/cache"
	"onlinecourse/internal/config"
	"onlinecourse/internal/database"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/handler"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/metrics"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/repository"
	"onlinecourse/internal/service"
	"onlinecourse/internal/validation"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const defaultResultTTL = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	metrics.Init()

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis backs session revocation and the exam result cache. Without it
	// logout only clears the cookie and results are graded on every view.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	}

	media, err := storage.NewMediaStorage(cfg.Media)
	if err != nil {
		appLogger.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	validator := validation.NewValidator()

	// Initialize repositories
	accountRepo := repository.NewSQLXAccountRepository(db)
	courseRepo := repository.NewSQLXCourseRepository(db)
	lessonRepo := repository.NewSQLXLessonRepository(db)
	questionRepo := repository.NewSQLXQuestionRepository(db)
	choiceRepo := repository.NewSQLXChoiceRepository(db)
	enrollmentRepo := repository.NewSQLXEnrollmentRepository(db)
	submissionRepo := repository.NewSQLXSubmissionRepository(db)
	instructorRepo := repository.NewSQLXInstructorRepository(db)
	learnerRepo := repository.NewSQLXLearnerRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	resultCache := service.NewResultCacheService(cacheAdapter,
		config.ParseTTLStringOrDefault(cfg.CacheTTLs.ExamResult, defaultResultTTL))

	authService, err := service.NewAuthService(accountRepo, learnerRepo, txManager, cacheAdapter, validator, cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	courseService := service.NewCourseService(courseRepo, lessonRepo, questionRepo, instructorRepo, enrollmentRepo, media)
	enrollmentService := service.NewEnrollmentService(courseRepo, enrollmentRepo, txManager)
	examService := service.NewExamService(courseRepo, questionRepo, enrollmentRepo, submissionRepo, txManager, resultCache)
	adminService := service.NewAdminService(service.AdminRepositories{
		Accounts:    accountRepo,
		Courses:     courseRepo,
		Lessons:     lessonRepo,
		Questions:   questionRepo,
		Choices:     choiceRepo,
		Submissions: submissionRepo,
		Instructors: instructorRepo,
		Learners:    learnerRepo,
		Enrollments: enrollmentRepo,
	}, txManager, media, resultCache, validator)

	// Initialize handlers
	courseHandler := handler.NewCourseHandler(courseService)
	authHandler := handler.NewAuthHandler(authService, cfg.Auth)
	examHandler := handler.NewExamHandler(enrollmentService, examService)
	adminHandler := handler.NewAdminHandler(adminService, validator)

	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())
	app.Use(middleware.Metrics())
	app.Use(middleware.Session(authService, cfg.Auth.CookieName))

	// Fixed paths go first so they never match /:courseID/.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return domain.NewInternalError("database unreachable", err)
		}
		if redisClient != nil {
			if err := redisClient.Ping(c.UserContext()).Err(); err != nil {
				return domain.NewInternalError("redis unreachable", err)
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", middleware.MetricsHandler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	if !cfg.IsProduction() && handler.RegisterMedia(app, cfg.Media) {
		appLogger.Info("Serving media from local storage", zap.String("root", cfg.Media.Root), zap.String("prefix", cfg.Media.URLPrefix))
	}

	adminHandler.Routes(app.Group(middleware.APIPrefix))

	app.Get("/", courseHandler.Home)
	app.Get("/registration/", authHandler.RegistrationPage)
	app.Post("/registration/", authHandler.Register)
	app.Get("/login/", authHandler.LoginPage)
	app.Post("/login/", authHandler.Login)
	app.Get("/logout/", authHandler.Logout)
	app.Post("/logout/", authHandler.Logout)
	app.Get("/course/:courseID/submission/:submissionID/result/", examHandler.Result)
	app.Get("/:courseID/", courseHandler.Detail)
	app.Get("/:courseID/enroll/", examHandler.Enroll)
	app.Post("/:courseID/enroll/", examHandler.Enroll)
	app.Post("/:courseID/submit/", examHandler.Submit)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
