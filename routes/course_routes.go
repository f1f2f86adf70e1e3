package routes

import (
	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses", middleware.Protected(), middleware.AdminRequired())
	courses.Post("", handlers.CreateCourse)
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeleteCourse)
}
