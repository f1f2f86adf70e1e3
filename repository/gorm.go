package repository

import (
	"context"
	"errors"

	"github.com/edulink/certify/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type GormStudentRepository struct {
	db *gorm.DB
}

func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

func (r *GormStudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(student).Error)
}

func (r *GormStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *GormStudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "student_id = ?", studentID).Error; err != nil {
		return nil, translateError(err)
	}
	return &student, nil
}

func (r *GormStudentRepository) List(ctx context.Context, search string) ([]models.Student, error) {
	var students []models.Student
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR student_id ILIKE ?", like, like, like)
	}
	if err := q.Find(&students).Error; err != nil {
		return nil, translateError(err)
	}
	return students, nil
}

func (r *GormStudentRepository) Update(ctx context.Context, student *models.Student) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(student).Error)
}

func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Certificate{}, "student_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Student{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type GormCourseRepository struct {
	db *gorm.DB
}

func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

func (r *GormCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Create(course).Error)
}

func (r *GormCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

func (r *GormCourseRepository) List(ctx context.Context, search string) ([]models.Course, error) {
	var courses []models.Course
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, translateError(err)
	}
	return courses, nil
}

func (r *GormCourseRepository) Update(ctx context.Context, course *models.Course) error {
	return translateError(r.db.WithContext(ctx).Save(course).Error)
}

func (r *GormCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormCertificateRepository struct {
	db *gorm.DB
}

func NewGormCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

func (r *GormCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(cert).Error)
}

func (r *GormCertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).Preload("Student").Preload("Course").First(&cert, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &cert, nil
}

func (r *GormCertificateRepository) GetByUniqueCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).Preload("Student").Preload("Course").First(&cert, "unique_code = ?", code).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &cert, nil
}

func (r *GormCertificateRepository) List(ctx context.Context) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.WithContext(ctx).Preload("Student").Preload("Course").Order("created_at DESC").Find(&certs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return certs, nil
}

func (r *GormCertificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	result := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", cert.ID).
		Select("issue_date", "expiry_date", "status").
		Updates(map[string]interface{}{
			"issue_date":  cert.IssueDate,
			"expiry_date": cert.ExpiryDate,
			"status":      cert.Status,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCertificateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCertificateRepository) SetFileURL(ctx context.Context, id uuid.UUID, fileURL string) error {
	result := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("file_url", fileURL)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCertificateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Certificate{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *GormUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
