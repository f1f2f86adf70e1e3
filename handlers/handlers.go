package handlers

import (
	"time"

	"github.com/edulink/certify/repository"
	"github.com/edulink/certify/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

var (
	students     repository.StudentRepository
	courses      repository.CourseRepository
	certificates repository.CertificateRepository
	users        repository.UserRepository
	certService  *services.CertificateService
)

// Setup wires the handlers to a set of repositories. main passes the
// Postgres-backed ones; tests pass the in-memory doubles.
func Setup(
	s repository.StudentRepository,
	c repository.CourseRepository,
	cert repository.CertificateRepository,
	u repository.UserRepository,
) {
	students = s
	courses = c
	certificates = cert
	users = u
	certService = services.NewCertificateService(s, c, cert)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// currentUserID extracts the authenticated user's id from the JWT set
// by the auth middleware. Returns nil when the route is unauthenticated.
func currentUserID(c *fiber.Ctx) *uuid.UUID {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	return &id
}
