package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edulink/certify/models"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. They enforce the
// same uniqueness rules the database schema does.

type InMemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]models.Student
	certs    *InMemoryCertificateRepository
}

func NewInMemoryStudentRepository(certs *InMemoryCertificateRepository) *InMemoryStudentRepository {
	return &InMemoryStudentRepository{
		students: make(map[uuid.UUID]models.Student),
		certs:    certs,
	}
}

func (r *InMemoryStudentRepository) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	for _, s := range r.students {
		if s.StudentID == student.StudentID {
			return ErrDuplicate
		}
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	student.UpdatedAt = student.CreatedAt
	r.students[student.ID] = *student
	return nil
}

func (r *InMemoryStudentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	student, ok := r.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &student, nil
}

func (r *InMemoryStudentRepository) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.StudentID == studentID {
			student := s
			return &student, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryStudentRepository) List(_ context.Context, search string) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var students []models.Student
	needle := strings.ToLower(search)
	for _, s := range r.students {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.FirstName), needle) &&
			!strings.Contains(strings.ToLower(s.LastName), needle) &&
			!strings.Contains(strings.ToLower(s.StudentID), needle) {
			continue
		}
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].CreatedAt.After(students[j].CreatedAt)
	})
	return students, nil
}

func (r *InMemoryStudentRepository) Update(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[student.ID]; !ok {
		return ErrNotFound
	}
	for _, s := range r.students {
		if s.StudentID == student.StudentID && s.ID != student.ID {
			return ErrDuplicate
		}
	}
	student.UpdatedAt = time.Now().UTC()
	r.students[student.ID] = *student
	return nil
}

func (r *InMemoryStudentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.students[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.students, id)
	r.mu.Unlock()
	if r.certs != nil {
		r.certs.deleteByStudent(id)
	}
	return nil
}

type InMemoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]models.Course
}

func NewInMemoryCourseRepository() *InMemoryCourseRepository {
	return &InMemoryCourseRepository{courses: make(map[uuid.UUID]models.Course)}
}

func (r *InMemoryCourseRepository) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	course.UpdatedAt = course.CreatedAt
	r.courses[course.ID] = *course
	return nil
}

func (r *InMemoryCourseRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &course, nil
}

func (r *InMemoryCourseRepository) List(_ context.Context, search string) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var courses []models.Course
	for _, c := range r.courses {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	return courses, nil
}

func (r *InMemoryCourseRepository) Update(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return ErrNotFound
	}
	course.UpdatedAt = time.Now().UTC()
	r.courses[course.ID] = *course
	return nil
}

func (r *InMemoryCourseRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type InMemoryCertificateRepository struct {
	mu       sync.RWMutex
	certs    map[uuid.UUID]models.Certificate
	students *InMemoryStudentRepository
	courses  *InMemoryCourseRepository
}

func NewInMemoryCertificateRepository() *InMemoryCertificateRepository {
	return &InMemoryCertificateRepository{certs: make(map[uuid.UUID]models.Certificate)}
}

// Attach wires the student and course repositories used to expand
// certificate lookups, mirroring the Preload behaviour of the
// database-backed implementation.
func (r *InMemoryCertificateRepository) Attach(students *InMemoryStudentRepository, courses *InMemoryCourseRepository) {
	r.students = students
	r.courses = courses
}

func (r *InMemoryCertificateRepository) Create(_ context.Context, cert *models.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	for _, c := range r.certs {
		if c.UniqueCode == cert.UniqueCode || (cert.Signature != "" && c.Signature == cert.Signature) {
			return ErrDuplicate
		}
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}
	cert.UpdatedAt = cert.CreatedAt
	stored := *cert
	stored.Student = models.Student{}
	stored.Course = models.Course{}
	stored.CreatedBy = nil
	r.certs[cert.ID] = stored
	return nil
}

func (r *InMemoryCertificateRepository) expand(cert models.Certificate) models.Certificate {
	if r.students != nil {
		if s, err := r.students.GetByID(context.Background(), cert.StudentID); err == nil {
			cert.Student = *s
		}
	}
	if r.courses != nil {
		if c, err := r.courses.GetByID(context.Background(), cert.CourseID); err == nil {
			cert.Course = *c
		}
	}
	return cert
}

func (r *InMemoryCertificateRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Certificate, error) {
	r.mu.RLock()
	cert, ok := r.certs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	expanded := r.expand(cert)
	return &expanded, nil
}

func (r *InMemoryCertificateRepository) GetByUniqueCode(_ context.Context, code string) (*models.Certificate, error) {
	r.mu.RLock()
	var found *models.Certificate
	for _, c := range r.certs {
		if c.UniqueCode == code {
			cert := c
			found = &cert
			break
		}
	}
	r.mu.RUnlock()
	if found == nil {
		return nil, ErrNotFound
	}
	expanded := r.expand(*found)
	return &expanded, nil
}

func (r *InMemoryCertificateRepository) List(_ context.Context) ([]models.Certificate, error) {
	r.mu.RLock()
	certs := make([]models.Certificate, 0, len(r.certs))
	for _, c := range r.certs {
		certs = append(certs, c)
	}
	r.mu.RUnlock()
	for i := range certs {
		certs[i] = r.expand(certs[i])
	}
	sort.Slice(certs, func(i, j int) bool {
		return certs[i].CreatedAt.After(certs[j].CreatedAt)
	})
	return certs, nil
}

func (r *InMemoryCertificateRepository) Update(_ context.Context, cert *models.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.certs[cert.ID]
	if !ok {
		return ErrNotFound
	}
	stored.IssueDate = cert.IssueDate
	stored.ExpiryDate = cert.ExpiryDate
	stored.Status = cert.Status
	stored.UpdatedAt = time.Now().UTC()
	r.certs[cert.ID] = stored
	return nil
}

func (r *InMemoryCertificateRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[id]
	if !ok {
		return ErrNotFound
	}
	cert.Status = status
	cert.UpdatedAt = time.Now().UTC()
	r.certs[id] = cert
	return nil
}

func (r *InMemoryCertificateRepository) SetFileURL(_ context.Context, id uuid.UUID, fileURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[id]
	if !ok {
		return ErrNotFound
	}
	cert.FileURL = &fileURL
	r.certs[id] = cert
	return nil
}

func (r *InMemoryCertificateRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[id]; !ok {
		return ErrNotFound
	}
	delete(r.certs, id)
	return nil
}

func (r *InMemoryCertificateRepository) deleteByStudent(studentID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.certs {
		if c.StudentID == studentID {
			delete(r.certs, id)
		}
	}
}

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *InMemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *InMemoryUserRepository) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Password = hashedPassword
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return nil
}
