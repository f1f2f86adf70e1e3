package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edulink/certify/models"
	"github.com/edulink/certify/repository"
	"github.com/google/uuid"
)

var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrInvalidStatus       = fmt.Errorf("status must be one of: %s, %s, %s",
		models.StatusActive, models.StatusExpired, models.StatusRevoked)
	ErrCodeAllocation = errors.New("could not allocate a unique certificate code")
)

type CertificateService struct {
	students     repository.StudentRepository
	courses      repository.CourseRepository
	certificates repository.CertificateRepository
}

func NewCertificateService(
	students repository.StudentRepository,
	courses repository.CourseRepository,
	certificates repository.CertificateRepository,
) *CertificateService {
	return &CertificateService{
		students:     students,
		courses:      courses,
		certificates: certificates,
	}
}

type CreateCertificateInput struct {
	StudentID  uuid.UUID
	CourseID   uuid.UUID
	IssueDate  time.Time
	ExpiryDate *time.Time
	Status     string
	CreatedBy  *uuid.UUID
}

// Create issues a certificate: it resolves the student and course,
// allocates the public code, freezes the creation timestamp, computes
// the signature over the complete canonical field set and persists the
// record in a single write. A uniqueness conflict on the code (or the
// signature derived from it) triggers a fresh allocation, up to a small
// fixed cap.
func (s *CertificateService) Create(ctx context.Context, in CreateCertificateInput) (*models.Certificate, error) {
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.ValidCertificateStatus(status) {
		return nil, ErrInvalidStatus
	}

	student, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	for attempt := 0; attempt < allocateMaxAttempts; attempt++ {
		// Postgres stores timestamps with microsecond precision;
		// truncating here keeps the signed created_at identical to
		// what a later read returns.
		now := time.Now().UTC().Truncate(time.Microsecond)

		cert := &models.Certificate{
			ID:          uuid.New(),
			StudentID:   student.ID,
			CourseID:    course.ID,
			IssueDate:   in.IssueDate,
			ExpiryDate:  in.ExpiryDate,
			UniqueCode:  AllocateCode(),
			Status:      status,
			CreatedByID: in.CreatedBy,
			Student:     *student,
			Course:      *course,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		cert.Signature = CertificateDigest(cert)

		err := s.certificates.Create(ctx, cert)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cert, nil
	}
	return nil, ErrCodeAllocation
}

// TransitionStatus moves a certificate to a new status within the
// closed enumeration. The code and signature are never touched.
func (s *CertificateService) TransitionStatus(ctx context.Context, id uuid.UUID, status string) (*models.Certificate, error) {
	if !models.ValidCertificateStatus(status) {
		return nil, ErrInvalidStatus
	}
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	if err := s.certificates.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	cert.Status = status
	return cert, nil
}

type ValidationResult struct {
	UniqueCode  string              `json:"unique_code"`
	IsValid     bool                `json:"is_valid"`
	Certificate *models.Certificate `json:"certificate,omitempty"`
	Message     string              `json:"message"`

	Found bool `json:"-"`
}

// ValidateByCode resolves a public code and reports validity from the
// certificate's status alone. An unknown code is a normal negative
// outcome, not an error. Callers wanting tamper detection use Verify.
func (s *CertificateService) ValidateByCode(ctx context.Context, code string) (*ValidationResult, error) {
	cert, err := s.certificates.GetByUniqueCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationResult{
				UniqueCode: code,
				IsValid:    false,
				Message:    "Certificate not found",
			}, nil
		}
		return nil, err
	}
	if cert.Signature == "" {
		// Partially created record from the legacy two-step save;
		// never report it as valid.
		return nil, ErrMissingSignature
	}

	isValid := cert.Status == models.StatusActive
	message := "Certificate is not valid"
	if isValid {
		message = "Certificate is valid"
	}
	return &ValidationResult{
		UniqueCode:  code,
		IsValid:     isValid,
		Certificate: cert,
		Message:     message,
		Found:       true,
	}, nil
}

// Verify recomputes the signature for a stored certificate and reports
// whether any signature-relevant field has been tampered with.
func (s *CertificateService) Verify(ctx context.Context, id uuid.UUID) (bool, error) {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrCertificateNotFound
		}
		return false, err
	}
	return VerifySignature(cert)
}
