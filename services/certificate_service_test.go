package services

import (
	"context"
	"testing"
	"time"

	"github.com/edulink/certify/models"
	"github.com/edulink/certify/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service  *CertificateService
	students *repository.InMemoryStudentRepository
	courses  *repository.InMemoryCourseRepository
	certs    repository.CertificateRepository
	student  *models.Student
	course   *models.Course
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	certRepo := repository.NewInMemoryCertificateRepository()
	studentRepo := repository.NewInMemoryStudentRepository(certRepo)
	courseRepo := repository.NewInMemoryCourseRepository()
	certRepo.Attach(studentRepo, courseRepo)

	student := &models.Student{
		StudentID: "STU001",
		FirstName: "John",
		LastName:  "Doe",
	}
	require.NoError(t, studentRepo.Create(context.Background(), student))

	course := &models.Course{
		Name:     "Python Programming",
		Duration: 10,
	}
	require.NoError(t, courseRepo.Create(context.Background(), course))

	return &serviceFixture{
		service:  NewCertificateService(studentRepo, courseRepo, certRepo),
		students: studentRepo,
		courses:  courseRepo,
		certs:    certRepo,
		student:  student,
		course:   course,
	}
}

func (f *serviceFixture) issue(t *testing.T) *models.Certificate {
	t.Helper()
	cert, err := f.service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		IssueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return cert
}

func TestCreateCertificate(t *testing.T) {
	f := newServiceFixture(t)
	cert := f.issue(t)

	assert.NotEmpty(t, cert.UniqueCode)
	assert.Regexp(t, hexDigest, cert.Signature)
	assert.Equal(t, models.StatusActive, cert.Status)

	ok, err := f.service.Verify(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateCertificateDistinctness(t *testing.T) {
	f := newServiceFixture(t)
	first := f.issue(t)

	other := &models.Course{Name: "Go Programming", Duration: 8}
	require.NoError(t, f.courses.Create(context.Background(), other))

	second, err := f.service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  other.ID,
		IssueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.UniqueCode, second.UniqueCode)
	assert.NotEqual(t, first.Signature, second.Signature)
}

func TestCreateCertificateUnknownReferences(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), CreateCertificateInput{
		StudentID: uuid.New(),
		CourseID:  f.course.ID,
		IssueDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  uuid.New(),
		IssueDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreateCertificateRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		IssueDate: time.Now(),
		Status:    "cancelled",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// rejected before anything was persisted
	stored, err := f.certs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// collidingCertRepo forces duplicate-key failures for the first N
// creates to exercise the allocation retry.
type collidingCertRepo struct {
	repository.CertificateRepository
	failures int
}

func (r *collidingCertRepo) Create(ctx context.Context, cert *models.Certificate) error {
	if r.failures > 0 {
		r.failures--
		return repository.ErrDuplicate
	}
	return r.CertificateRepository.Create(ctx, cert)
}

func TestCreateCertificateRetriesOnCollision(t *testing.T) {
	f := newServiceFixture(t)
	colliding := &collidingCertRepo{CertificateRepository: f.certs, failures: 2}
	service := NewCertificateService(f.students, f.courses, colliding)

	cert, err := service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		IssueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, cert.UniqueCode)
}

func TestCreateCertificateCollisionCap(t *testing.T) {
	f := newServiceFixture(t)
	colliding := &collidingCertRepo{CertificateRepository: f.certs, failures: allocateMaxAttempts}
	service := NewCertificateService(f.students, f.courses, colliding)

	_, err := service.Create(context.Background(), CreateCertificateInput{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		IssueDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrCodeAllocation)
}

func TestTransitionStatusKeepsSignature(t *testing.T) {
	f := newServiceFixture(t)
	cert := f.issue(t)
	originalSignature := cert.Signature

	_, err := f.service.TransitionStatus(context.Background(), cert.ID, models.StatusRevoked)
	require.NoError(t, err)

	stored, err := f.certs.GetByID(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevoked, stored.Status)
	assert.Equal(t, originalSignature, stored.Signature)

	ok, err := VerifySignature(stored)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture(t)
	cert := f.issue(t)

	_, err := f.service.TransitionStatus(context.Background(), cert.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := f.certs.GetByID(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestValidateByCode(t *testing.T) {
	f := newServiceFixture(t)
	cert := f.issue(t)

	result, err := f.service.ValidateByCode(context.Background(), cert.UniqueCode)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.IsValid)
	assert.Equal(t, "Certificate is valid", result.Message)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, "STU001", result.Certificate.Student.StudentID)
	assert.Equal(t, "Python Programming", result.Certificate.Course.Name)

	_, err = f.service.TransitionStatus(context.Background(), cert.ID, models.StatusRevoked)
	require.NoError(t, err)

	result, err = f.service.ValidateByCode(context.Background(), cert.UniqueCode)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.IsValid)
	assert.Equal(t, "Certificate is not valid", result.Message)
}

func TestValidateByCodeUnknown(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.service.ValidateByCode(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.False(t, result.IsValid)
	assert.Nil(t, result.Certificate)
	assert.Equal(t, "Certificate not found", result.Message)
}

func TestValidateByCodeSurfacesMissingSignature(t *testing.T) {
	f := newServiceFixture(t)

	// legacy record persisted without a signature
	legacy := &models.Certificate{
		ID:         uuid.New(),
		StudentID:  f.student.ID,
		CourseID:   f.course.ID,
		IssueDate:  time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		UniqueCode: uuid.NewString(),
		Status:     models.StatusActive,
	}
	require.NoError(t, f.certs.Create(context.Background(), legacy))

	_, err := f.service.ValidateByCode(context.Background(), legacy.UniqueCode)
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifyDetectsTamperedCourse(t *testing.T) {
	f := newServiceFixture(t)
	cert := f.issue(t)

	ok, err := f.service.Verify(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// tamper with a signature-relevant field behind the service's back
	f.course.Name = "Blockchain Fundamentals"
	require.NoError(t, f.courses.Update(context.Background(), f.course))

	ok, err = f.service.Verify(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnknownCertificate(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.service.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}
