package routes

import (
	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/middleware"
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	students := api.Group("/students", middleware.Protected(), middleware.AdminRequired())
	students.Post("", handlers.CreateStudent)
	students.Get("", handlers.ListStudents)
	students.Get("/:studentId", handlers.GetStudent)
	students.Put("/:studentId", handlers.UpdateStudent)
	students.Delete("/:studentId", handlers.DeleteStudent)
}
