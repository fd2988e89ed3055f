package config

import (
	"errors"
	"os"
	"path/filepath"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/internal/api/handlers"
	"RecipeHub-Backend/internal/api/presenters"
	"RecipeHub-Backend/internal/api/routes"
	"RecipeHub-Backend/internal/middleware"
	"RecipeHub-Backend/internal/utils"
	"RecipeHub-Backend/internal/utils/logger"
	"RecipeHub-Backend/internal/utils/mailing"
	"RecipeHub-Backend/internal/utils/ratelimit"
	"RecipeHub-Backend/internal/utils/storage"
	"RecipeHub-Backend/pkg/jwt"
	"RecipeHub-Backend/pkg/recipe"
	"RecipeHub-Backend/pkg/user"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const bodyLimit = 10 * 1024 * 1024

func NewApp(db *gorm.DB, cfg utils.Config, log *logger.Logger) (*fiber.App, error) {
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = "recipehub-development-secret"
	}

	utils.SetConfig(cfg)
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:      "RecipeHub",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler(log),
	})
	middlewares := middleware.NewMiddleware(cfg.CORSAllowOrigins)
	validator := utils.Validate

	app.Use(recover.New())

	// setting up logging and limiter
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), os.ModePerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(
			cfg.LogFile,
			os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0666,
		)
		if err != nil {
			return nil, err
		}
		app.Use(fiberlogger.New(fiberlogger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     file,
		}))
	}

	limiterConfig := limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, "too many requests", nil)
		},
	}
	redisClient, err := ConnectRedis(cfg)
	if err != nil {
		log.Warn("redis unavailable, rate limiting in memory", "error", err)
	} else if redisClient != nil {
		limiterConfig.Storage = ratelimit.NewRedisStorage(redisClient)
	}
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiterConfig))
	}

	metrics := fiberprometheus.NewWithRegistry(prometheus.NewRegistry(), "recipehub", "", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// utils
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		app.Static(cfg.UploadPublicPath, cfg.UploadDir)
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)
	userService := user.NewUserService(userRepository, jwtService, fileStorage, log, cfg.BcryptCost)
	recipeService := recipe.NewRecipeService(recipeRepository, fileStorage, mailer, log, cfg.AppURL)

	// Handler
	userHandler := handlers.NewUserHandler(userService, recipeService, validator, log)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator, log)

	// routes
	routesConfig := routes.Config{
		App:           app,
		DB:            db,
		UserHandler:   userHandler,
		RecipeHandler: recipeHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()

	app.Use(func(c *fiber.Ctx) error {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, "resource not found", nil)
	})
	return app, nil
}

// errorHandler keeps every unhandled error in the JSON envelope.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := domain.MessageServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
			message = domain.MessageServerError
		}
		return presenters.ErrorResponse(c, code, message, nil)
	}
}
