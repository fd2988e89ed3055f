package routes

import (
	"RecipeHub-Backend/internal/api/handlers"
	"RecipeHub-Backend/internal/middleware"
	"RecipeHub-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Config struct {
	App           *fiber.App
	DB            *gorm.DB
	UserHandler   handlers.UserHandler
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Recipes()
	c.Users()
}

func (c *Config) GuestRoute() {
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		if c.DB != nil {
			sqlDB, err := c.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx.Context())
			}
			if err != nil {
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": false, "message": "database unavailable"})
			}
		}
		return ctx.JSON(fiber.Map{"status": true, "message": "ok"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Recipes() {
	authorized := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Get("/api/categories", c.RecipeHandler.GetCategories)

	recipes := c.App.Group("/api/recipes")
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipe)
	recipes.Post("", authorized, c.RecipeHandler.CreateRecipe)
	recipes.Put("/:id", authorized, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", authorized, c.RecipeHandler.DeleteRecipe)

	// social
	recipes.Get("/:id/comments", c.RecipeHandler.GetComments)
	recipes.Post("/:id/comments", authorized, c.RecipeHandler.AddComment)
	recipes.Post("/:id/ratings", authorized, c.RecipeHandler.RateRecipe)
	recipes.Post("/:id/favorite", authorized, c.RecipeHandler.ToggleFavorite)
}

func (c *Config) Users() {
	users := c.App.Group("/api/users")
	users.Get("/profile/:username", c.UserHandler.GetProfile)
	users.Put("/profile", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
	users.Get("/recipes", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetUserRecipes)
	users.Get("/favorites", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetFavorites)
}
