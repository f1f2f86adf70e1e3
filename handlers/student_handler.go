package handlers

import (
	"errors"
	"time"

	"github.com/edulink/certify/models"
	"github.com/edulink/certify/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StudentRequest struct {
	StudentID   string  `json:"student_id" validate:"required,max=50"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty"`
}

func CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var dob *time.Time
	if req.DateOfBirth != nil {
		parsed, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		dob = &parsed
	}

	student := models.Student{
		StudentID:   req.StudentID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: dob,
	}

	if err := students.Create(c.Context(), &student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Student ID already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

func ListStudents(c *fiber.Ctx) error {
	result, err := students.List(c.Context(), c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list students"})
	}
	return c.JSON(result)
}

// GetStudent resolves the path parameter as an internal uuid first and
// falls back to the external student_id (e.g. "STU001").
func GetStudent(c *fiber.Ctx) error {
	param := c.Params("studentId")

	var student *models.Student
	if id, err := uuid.Parse(param); err == nil {
		student, err = students.GetByID(c.Context(), id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
	} else {
		student, err = students.GetByStudentID(c.Context(), param)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
	}
	return c.JSON(student)
}

func UpdateStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	student, err := students.GetByID(c.Context(), studentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	student.StudentID = req.StudentID
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	if req.DateOfBirth != nil {
		parsed, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		student.DateOfBirth = &parsed
	}

	if err := students.Update(c.Context(), student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Student ID already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}
	return c.JSON(student)
}

// DeleteStudent removes the student and, by cascade, every certificate
// issued to them.
func DeleteStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	if err := students.Delete(c.Context(), studentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
