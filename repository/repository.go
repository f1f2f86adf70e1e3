package repository

import (
	"context"
	"errors"

	"github.com/edulink/certify/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key value")
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	List(ctx context.Context, search string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	// Delete removes the student and cascades to its certificates.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, search string) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	// GetByID and GetByUniqueCode return the certificate with its
	// student and course expanded.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error)
	GetByUniqueCode(ctx context.Context, code string) (*models.Certificate, error)
	List(ctx context.Context) ([]models.Certificate, error)
	// Update persists the mutable fields only; unique_code and
	// signature are frozen at creation.
	Update(ctx context.Context, cert *models.Certificate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetFileURL(ctx context.Context, id uuid.UUID, fileURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}
