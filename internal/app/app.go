package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/controller"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/database"
	"snaplearn_backend/pkg/logger"
	"snaplearn_backend/pkg/monitoring"
	"snaplearn_backend/pkg/security"
	"snaplearn_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	tracer          *sdktrace.TracerProvider
	cancelTasks     context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	homework   *repository.HomeworkRepository
	submission *repository.SubmissionRepository
	mistake    *repository.MistakeRepository
	aiHelp     *repository.AIHelpRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	storage  *service.StorageService
	homework *service.HomeworkService
	mistake  *service.MistakeService
	aiHelp   *service.AIHelpService
	batch    *service.BatchGrader
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	homework *controller.HomeworkController
	mistake  *controller.MistakeController
	teacher  *controller.TeacherController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件变更后由 configwatcher 调用
func (a *App) ReloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// newAIGrader 未配置密钥时返回 nil，主观题将一直等待教师或后台批改
func newAIGrader(cfg config.AIConfig) service.AIGrader {
	if (cfg.Provider == "" || cfg.Provider == "openai") && cfg.APIKey == "" {
		logger.Log.Warn("AI grading disabled: api key is empty")
		return nil
	}
	grader, err := service.NewAIGrader(cfg)
	if err != nil {
		logger.Log.Warn("AI grading disabled", zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}
	return grader
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		homework:   repository.NewHomeworkRepository(db),
		submission: repository.NewSubmissionRepository(db),
		mistake:    repository.NewMistakeRepository(db),
		aiHelp:     repository.NewAIHelpRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}
	grader := newAIGrader(cfg.AI)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.homework = service.NewHomeworkService(db, repos.homework, repos.submission, repos.mistake, repos.user, cfg.Grading, grader)
	s.homework.Storage = s.storage
	s.mistake = service.NewMistakeService(repos.mistake, repos.homework, grader, cfg.Grading.MistakeSample)
	s.aiHelp = service.NewAIHelpService(repos.aiHelp, repos.homework, grader)
	s.batch = service.NewBatchGrader(db, repos.homework, repos.submission, repos.mistake,
		service.NewLocker(rdb), cfg.Grading, grader)

	// AI 与批改配置支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		g := newAIGrader(newCfg.AI)
		s.homework.Reconfigure(newCfg.Grading, g)
		s.mistake.Reconfigure(g, newCfg.Grading.MistakeSample)
		s.aiHelp.SetGrader(g)
		s.batch.Reconfigure(newCfg.Grading, g)
		logger.Log.Info("grading config applied",
			zap.String("provider", newCfg.AI.Provider),
			zap.Bool("defer_subjective", newCfg.Grading.DeferSubjective),
		)
	})
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		user:     controller.NewUserController(s.user),
		homework: controller.NewHomeworkController(s.homework, s.aiHelp),
		mistake:  controller.NewMistakeController(s.mistake),
		teacher:  controller.NewTeacherController(s.homework),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelTasks = cancel
	go s.batch.Start(ctx)
}

// NewApp 初始化依赖；cfg.MigrateOnly 时只完成数据库迁移
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("snaplearn", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.build(db, rdb)
	app.startBackgroundTasks(app.services)

	return app
}

// build 组装仓储、服务、控制器与路由
func (a *App) build(db *gorm.DB, rdb *redis.Client) {
	cfg := a.Config
	a.DB = db
	a.Redis = rdb

	repos := a.initRepositories(db)
	services := a.initServices(repos, cfg, db, rdb)
	a.services = services
	controllers := a.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.cancelTasks != nil {
		a.cancelTasks()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
