package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/taskflow/internal/config"
	"github.com/example/taskflow/internal/handlers"
	"github.com/example/taskflow/internal/logging"
	"github.com/example/taskflow/internal/middleware"
	"github.com/example/taskflow/internal/repository"
	"github.com/example/taskflow/internal/response"
	"github.com/example/taskflow/internal/services"
	"github.com/example/taskflow/internal/utils"
)

// Dependencies are the collaborators the route table is built from.
type Dependencies struct {
	Store    repository.AccountStore
	Hasher   utils.PasswordHasher
	Tokens   *utils.TokenManager
	Notifier services.OTPNotifier
	Log      logging.Logger
}

// NewDependencies builds the production collaborators for store from cfg.
func NewDependencies(cfg *config.Config, store repository.AccountStore, log logging.Logger) (Dependencies, error) {
	hasher, err := utils.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		return Dependencies{}, err
	}

	return Dependencies{
		Store:    store,
		Hasher:   hasher,
		Tokens:   utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Notifier: services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramOTPChat, log),
		Log:      log,
	}, nil
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Dependencies) {
	identity := services.NewIdentityService(deps.Store, deps.Hasher, deps.Notifier, deps.Log)

	authHandler := handlers.NewAuthHandler(identity, deps.Tokens)
	profileHandler := handlers.NewProfileHandler(identity)
	userHandler := handlers.NewUserHandler(identity)

	app.Get("/health", func(c *fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, "OK", fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/request-password-reset", authHandler.RequestPasswordReset)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Protected routes
	guard := middleware.AuthMiddleware(deps.Tokens)

	auth.Get("/session", guard, authHandler.Session)

	protected := api.Group("", guard)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Get("/users", userHandler.ListUsers)
}
