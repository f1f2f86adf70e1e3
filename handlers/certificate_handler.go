package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/edulink/certify/configs"
	"github.com/edulink/certify/models"
	"github.com/edulink/certify/notifications"
	"github.com/edulink/certify/repository"
	"github.com/edulink/certify/services"
	"github.com/edulink/certify/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CertificateRequest struct {
	StudentID  string  `json:"student_id" validate:"required,uuid4"`
	CourseID   string  `json:"course_id" validate:"required,uuid4"`
	IssueDate  string  `json:"issue_date" validate:"required"`
	ExpiryDate *string `json:"expiry_date"`
	Status     string  `json:"status"`
}

func CreateCertificate(c *fiber.Ctx) error {
	var req CertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	studentID, _ := uuid.Parse(req.StudentID)
	courseID, _ := uuid.Parse(req.CourseID)

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "issue_date must be YYYY-MM-DD"})
	}
	var expiryDate *time.Time
	if req.ExpiryDate != nil {
		parsed, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expiry_date must be YYYY-MM-DD"})
		}
		expiryDate = &parsed
	}

	cert, err := certService.Create(c.Context(), services.CreateCertificateInput{
		StudentID:  studentID,
		CourseID:   courseID,
		IssueDate:  issueDate,
		ExpiryDate: expiryDate,
		Status:     req.Status,
		CreatedBy:  currentUserID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		case errors.Is(err, services.ErrCourseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrCodeAllocation):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create certificate"})
		}
	}

	if cert.Student.Email != nil {
		go notifications.SendCertificateIssued(cert.Student.FullName(), *cert.Student.Email, cert.Course.Name, cert.UniqueCode)
	}

	return c.Status(fiber.StatusCreated).JSON(cert)
}

func ListCertificates(c *fiber.Ctx) error {
	result, err := certificates.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list certificates"})
	}
	return c.JSON(result)
}

func GetCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	cert, err := certificates.GetByID(c.Context(), certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}
	return c.JSON(cert)
}

type CertificateUpdateRequest struct {
	IssueDate  *string `json:"issue_date"`
	ExpiryDate *string `json:"expiry_date"`
	Status     *string `json:"status"`
}

// UpdateCertificate accepts the mutable fields only. unique_code and
// signature are server-controlled and never part of the request shape.
func UpdateCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	cert, err := certificates.GetByID(c.Context(), certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	var req CertificateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Status != nil {
		if !models.ValidCertificateStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrInvalidStatus.Error()})
		}
		cert.Status = *req.Status
	}
	if req.IssueDate != nil {
		parsed, err := parseDate(*req.IssueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "issue_date must be YYYY-MM-DD"})
		}
		cert.IssueDate = parsed
	}
	if req.ExpiryDate != nil {
		parsed, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expiry_date must be YYYY-MM-DD"})
		}
		cert.ExpiryDate = &parsed
	}

	if err := certificates.Update(c.Context(), cert); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update certificate"})
	}
	return c.JSON(cert)
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransitionCertificateStatus moves a certificate through the
// active/expired/revoked state machine.
func TransitionCertificateStatus(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cert, err := certService.TransitionStatus(c.Context(), certID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrCertificateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update certificate status"})
		}
	}
	return c.JSON(cert)
}

func DeleteCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	if err := certificates.Delete(c.Context(), certID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete certificate"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type ValidateRequest struct {
	UniqueCode string `json:"unique_code"`
}

// ValidateCertificate is the public lookup behind the QR code. An
// unknown code is a normal negative answer, never an error status.
func ValidateCertificate(c *fiber.Ctx) error {
	var req ValidateRequest
	_ = c.BodyParser(&req)
	if req.UniqueCode == "" {
		req.UniqueCode = c.Query("code")
	}
	if req.UniqueCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unique code is required"})
	}

	result, err := certService.ValidateByCode(c.Context(), req.UniqueCode)
	if err != nil {
		if errors.Is(err, services.ErrMissingSignature) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Certificate record is missing its signature"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate certificate"})
	}
	return c.JSON(result)
}

// VerifyCertificate recomputes the signature over the stored record,
// exposing tamper detection separately from status validation.
func VerifyCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	ok, err := certService.Verify(c.Context(), certID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCertificateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
		case errors.Is(err, services.ErrMissingSignature):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Certificate record is missing its signature"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify certificate"})
		}
	}
	return c.JSON(fiber.Map{
		"certificate_id":  certID,
		"signature_valid": ok,
	})
}

func CertificateQRCode(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	cert, err := certificates.GetByID(c.Context(), certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	validationURL := fmt.Sprintf("%s/api/v1/certificates/validate?code=%s", config.Config("BASE_URL"), cert.UniqueCode)
	png, err := utils.GenerateQRCode(validationURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate QR code"})
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate_%s_qrcode.png"`, cert.ID))
	return c.Send(png)
}

func DownloadCertificate(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid certificate ID"})
	}

	cert, err := certificates.GetByID(c.Context(), certID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
	}

	// Serve the cached upload instead of re-rendering through Chrome.
	if cert.FileURL != nil {
		return c.Redirect(*cert.FileURL, fiber.StatusFound)
	}

	pdfBytes, err := services.RenderCertificatePDF(cert)
	if err != nil {
		log.Printf("🔥 Failed to render certificate %s: %v", cert.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render certificate"})
	}

	if config.Config("CLOUDINARY_URL") != "" {
		if url, err := services.UploadCertificatePDF(pdfBytes, cert); err != nil {
			log.Printf("🔥 Failed to upload certificate %s: %v", cert.ID, err)
		} else if err := certificates.SetFileURL(c.Context(), cert.ID, url); err != nil {
			log.Printf("🔥 Failed to store file URL for certificate %s: %v", cert.ID, err)
		}
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate_%s.pdf"`, cert.ID))
	return c.Send(pdfBytes)
}
