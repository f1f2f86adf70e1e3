package routes

import (
	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/change-password", middleware.Protected(), handlers.ChangePassword)
}
