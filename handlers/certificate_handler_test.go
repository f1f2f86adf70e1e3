package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/models"
	"github.com/edulink/certify/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	app     *fiber.App
	certs   *repository.InMemoryCertificateRepository
	student *models.Student
	course  *models.Course
	admin   *models.User
}

// fakeAuth stands in for the JWT middleware on protected routes.
func fakeAuth(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID.String(),
			"role":    "admin",
		})
		c.Locals("user", token)
		return c.Next()
	}
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	certRepo := repository.NewInMemoryCertificateRepository()
	studentRepo := repository.NewInMemoryStudentRepository(certRepo)
	courseRepo := repository.NewInMemoryCourseRepository()
	certRepo.Attach(studentRepo, courseRepo)
	userRepo := repository.NewInMemoryUserRepository()

	handlers.Setup(studentRepo, courseRepo, certRepo, userRepo)

	ctx := context.Background()
	student := &models.Student{StudentID: "STU001", FirstName: "John", LastName: "Doe"}
	require.NoError(t, studentRepo.Create(ctx, student))
	course := &models.Course{Name: "Python Programming", Duration: 10}
	require.NoError(t, courseRepo.Create(ctx, course))
	admin := &models.User{FullName: "Admin User", Email: "admin@example.com", Password: "hash", Role: "admin"}
	require.NoError(t, userRepo.Create(ctx, admin))

	app := fiber.New()
	certs := app.Group("/api/v1/certificates")
	certs.Post("/validate", handlers.ValidateCertificate)
	certs.Get("/validate", handlers.ValidateCertificate)
	certs.Get("/:certificateId/qr-code", handlers.CertificateQRCode)
	certs.Get("/:certificateId/download", fakeAuth(admin.ID), handlers.DownloadCertificate)
	certs.Get("/:certificateId/verify", handlers.VerifyCertificate)
	certs.Get("/:certificateId", handlers.GetCertificate)
	certs.Post("", fakeAuth(admin.ID), handlers.CreateCertificate)
	certs.Get("", fakeAuth(admin.ID), handlers.ListCertificates)
	certs.Put("/:certificateId", fakeAuth(admin.ID), handlers.UpdateCertificate)
	certs.Patch("/:certificateId/status", fakeAuth(admin.ID), handlers.TransitionCertificateStatus)
	certs.Delete("/:certificateId", fakeAuth(admin.ID), handlers.DeleteCertificate)

	studentGroup := app.Group("/api/v1/students")
	studentGroup.Get("/:studentId", fakeAuth(admin.ID), handlers.GetStudent)

	return &handlerFixture{app: app, certs: certRepo, student: student, course: course, admin: admin}
}

func (f *handlerFixture) request(t *testing.T, method, target string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (f *handlerFixture) issue(t *testing.T) models.Certificate {
	t.Helper()
	code, body := f.request(t, "POST", "/api/v1/certificates", fiber.Map{
		"student_id": f.student.ID.String(),
		"course_id":  f.course.ID.String(),
		"issue_date": "2024-01-01",
	})
	require.Equal(t, fiber.StatusCreated, code)

	var cert models.Certificate
	require.NoError(t, json.Unmarshal(body, &cert))
	return cert
}

func TestCreateCertificateEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	assert.NotEmpty(t, cert.UniqueCode)
	assert.Len(t, cert.Signature, 64)
	assert.Equal(t, models.StatusActive, cert.Status)
	require.NotNil(t, cert.CreatedByID)
	assert.Equal(t, f.admin.ID, *cert.CreatedByID)
}

func TestCreateCertificateEndpointUnknownStudent(t *testing.T) {
	f := newHandlerFixture(t)
	code, _ := f.request(t, "POST", "/api/v1/certificates", fiber.Map{
		"student_id": uuid.NewString(),
		"course_id":  f.course.ID.String(),
		"issue_date": "2024-01-01",
	})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCreateCertificateEndpointRejectsBadStatus(t *testing.T) {
	f := newHandlerFixture(t)
	code, _ := f.request(t, "POST", "/api/v1/certificates", fiber.Map{
		"student_id": f.student.ID.String(),
		"course_id":  f.course.ID.String(),
		"issue_date": "2024-01-01",
		"status":     "cancelled",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestValidateEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, body := f.request(t, "POST", "/api/v1/certificates/validate", fiber.Map{"unique_code": cert.UniqueCode})
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		UniqueCode string `json:"unique_code"`
		IsValid    bool   `json:"is_valid"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, cert.UniqueCode, result.UniqueCode)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Certificate is valid", result.Message)

	// revoke, then validate again with the same code
	status, _ = f.request(t, "PUT", "/api/v1/certificates/"+cert.ID.String(), fiber.Map{"status": "revoked"})
	require.Equal(t, fiber.StatusOK, status)

	status, body = f.request(t, "POST", "/api/v1/certificates/validate", fiber.Map{"unique_code": cert.UniqueCode})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, "Certificate is not valid", result.Message)
}

func TestValidateEndpointUnknownCode(t *testing.T) {
	f := newHandlerFixture(t)

	status, body := f.request(t, "POST", "/api/v1/certificates/validate", fiber.Map{"unique_code": "does-not-exist"})
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		IsValid bool   `json:"is_valid"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, "Certificate not found", result.Message)
}

func TestValidateEndpointRequiresCode(t *testing.T) {
	f := newHandlerFixture(t)
	status, _ := f.request(t, "POST", "/api/v1/certificates/validate", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestValidateEndpointViaQueryParam(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, body := f.request(t, "GET", "/api/v1/certificates/validate?code="+cert.UniqueCode, nil)
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		IsValid bool `json:"is_valid"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.IsValid)
}

func TestVerifyEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, body := f.request(t, "GET", "/api/v1/certificates/"+cert.ID.String()+"/verify", nil)
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		SignatureValid bool `json:"signature_valid"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.SignatureValid)
}

func TestUpdateCertificateNeverAcceptsFrozenFields(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, _ := f.request(t, "PUT", "/api/v1/certificates/"+cert.ID.String(), fiber.Map{
		"unique_code": "attacker-controlled",
		"signature":   "ffff",
		"status":      "expired",
	})
	require.Equal(t, fiber.StatusOK, status)

	stored, err := f.certs.GetByID(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.UniqueCode, stored.UniqueCode)
	assert.Equal(t, cert.Signature, stored.Signature)
	assert.Equal(t, models.StatusExpired, stored.Status)
}

func TestTransitionStatusEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, body := f.request(t, "PATCH", "/api/v1/certificates/"+cert.ID.String()+"/status", fiber.Map{"status": "revoked"})
	require.Equal(t, fiber.StatusOK, status)

	var updated models.Certificate
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, models.StatusRevoked, updated.Status)
	assert.Equal(t, cert.Signature, updated.Signature)

	status, _ = f.request(t, "PATCH", "/api/v1/certificates/"+cert.ID.String()+"/status", fiber.Map{"status": "cancelled"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestQRCodeEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	req := httptest.NewRequest("GET", "/api/v1/certificates/"+cert.ID.String()+"/qr-code", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestDownloadServesCachedFileURL(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	fileURL := "https://cdn.example.com/certs/" + cert.ID.String() + ".pdf"
	require.NoError(t, f.certs.SetFileURL(context.Background(), cert.ID, fileURL))

	req := httptest.NewRequest("GET", "/api/v1/certificates/"+cert.ID.String()+"/download", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, fileURL, resp.Header.Get("Location"))
}

func TestGetStudentByExternalID(t *testing.T) {
	f := newHandlerFixture(t)

	status, body := f.request(t, "GET", "/api/v1/students/STU001", nil)
	require.Equal(t, fiber.StatusOK, status)

	var student models.Student
	require.NoError(t, json.Unmarshal(body, &student))
	assert.Equal(t, f.student.ID, student.ID)

	status, _ = f.request(t, "GET", "/api/v1/students/STU999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetCertificateEndpointPublic(t *testing.T) {
	f := newHandlerFixture(t)
	cert := f.issue(t)

	status, body := f.request(t, "GET", "/api/v1/certificates/"+cert.ID.String(), nil)
	require.Equal(t, fiber.StatusOK, status)

	var fetched models.Certificate
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, cert.ID, fetched.ID)
	assert.Equal(t, "STU001", fetched.Student.StudentID)
	assert.Equal(t, "Python Programming", fetched.Course.Name)
}
