package routes

import (
	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Post("", handlers.CreateUser)
	users.Post("/change-password", handlers.AdminChangeUserPassword)
}
