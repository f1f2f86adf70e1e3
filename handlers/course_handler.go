package handlers

import (
	"errors"

	"github.com/edulink/certify/models"
	"github.com/edulink/certify/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course := models.Course{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
	}

	if err := courses.Create(c.Context(), &course); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	result, err := courses.List(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list courses"})
	}
	return c.JSON(result)
}

func GetCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	course, err := courses.GetByID(c.Context(), courseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	course, err := courses.GetByID(c.Context(), courseID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course.Name = req.Name
	course.Description = req.Description
	course.Duration = req.Duration

	if err := courses.Update(c.Context(), course); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	if err := courses.Delete(c.Context(), courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
