package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campusconnect/internal/app/controllers"
	appMigrations "github.com/yigit/campusconnect/internal/app/migrations"
	appRepos "github.com/yigit/campusconnect/internal/app/repositories"
	appRoutes "github.com/yigit/campusconnect/internal/app/routes"
	appServices "github.com/yigit/campusconnect/internal/app/services"
	"github.com/yigit/campusconnect/internal/config"
	"github.com/yigit/campusconnect/internal/db"
	appMiddleware "github.com/yigit/campusconnect/internal/middleware"
	pkgAuth "github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/email"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
	"github.com/yigit/campusconnect/internal/pkg/logger"
	"github.com/yigit/campusconnect/internal/pkg/ratelimit"
	"github.com/yigit/campusconnect/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	DirectoryService  appServices.DirectoryService
	MentorshipService appServices.MentorshipService
	ProfileService    appServices.ProfileService
	AdminService      appServices.AdminService
	EventService      appServices.EventService
	Controllers       appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Hasher            *pkgAuth.PasswordHasher
	FileStorage       filestorage.FileStorage
	Limiter           ratelimit.Limiter
	RedisClient       *redis.Client
	Logger            zerolog.Logger
}

// Close releases connections opened while building the dependencies
func (d *Dependencies) Close() {
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.ConfigureFromStrings(cfg.Logging.Level, cfg.Logging.Format)

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator, closeMigrator, err := appMigrations.NewMigratorFromPool(dbPool, logger.Component("migrations"))
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer closeMigrator()

	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	hasher := pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), hasher, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storage, err := newFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.Limiter = ratelimit.Noop{}
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.RedisClient = client
		deps.Limiter = ratelimit.NewRedisLimiter(client, logger.Component("ratelimit"))
		lgr.Info().Msg("OTP attempt limiting backed by redis")
	} else {
		lgr.Warn().Msg("REDIS_URL not set, OTP attempt limiting disabled")
	}

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
	}, logger.Component("email"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hasher = pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)

	deps.AuthService = appServices.NewAuthService(
		appServices.AuthDeps{
			UserRepo:   deps.Repos.UserRepository,
			JWTService: deps.JWTService,
			Hasher:     deps.Hasher,
			Sender:     sender,
			Limiter:    deps.Limiter,
		},
		appServices.AuthPolicy{
			RequireOTPVerification:        cfg.Auth.RequireOTPVerification,
			RequireAdminApprovalForAlumni: cfg.Auth.RequireAdminApprovalForAlumni,
			OTPTTL:                        cfg.OTPTTL(),
			OTPMaxAttempts:                cfg.Auth.OTPMaxAttempts,
			OTPResendInterval:             cfg.OTPResendInterval(),
		},
		logger.Component("auth"),
	)
	deps.DirectoryService = appServices.NewDirectoryService(deps.Repos.AlumniRepository, cfg.Directory.IncludeUnapproved, logger.Component("directory"))
	deps.MentorshipService = appServices.NewMentorshipService(deps.Repos.MentorshipRepository, deps.Repos.UserRepository, logger.Component("mentorship"))
	deps.ProfileService = appServices.NewProfileService(deps.Repos.UserRepository, deps.FileStorage, cfg.Storage.MaxUploadBytes, logger.Component("profile"))
	deps.AdminService = appServices.NewAdminService(deps.Repos.AdminRepository, logger.Component("admin"))
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository, logger.Component("events"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService).WithAccountCheck(deps.Repos.UserRepository)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.AuthService, lgr),
		Student: appControllers.NewStudentController(deps.DirectoryService, deps.MentorshipService, deps.ProfileService, lgr),
		Alumni:  appControllers.NewAlumniController(deps.MentorshipService, deps.ProfileService, lgr),
		Admin:   appControllers.NewAdminController(deps.AdminService, lgr),
		Event:   appControllers.NewEventController(deps.EventService),
		Health:  appControllers.NewHealthController(dbPool),
	}

	return deps, nil
}

func newFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return filestorage.NewS3Storage(filestorage.S3Config{
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Bucket:    cfg.Storage.S3.Bucket,
			Region:    cfg.Storage.S3.Region,
			Endpoint:  cfg.Storage.S3.Endpoint,
			CDNURL:    cfg.Storage.S3.CDNURL,
		})
	default:
		return filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.PublicBaseURL)
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORS(cfg.CORS.AllowedOrigins))
	router.MaxMultipartMemory = cfg.Storage.MaxUploadBytes

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
