package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

var CertificateStatuses = []string{StatusActive, StatusExpired, StatusRevoked}

func ValidCertificateStatus(status string) bool {
	for _, s := range CertificateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Certificate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	IssueDate   time.Time  `gorm:"type:date;not null;index" json:"issue_date"`
	ExpiryDate  *time.Time `gorm:"type:date" json:"expiry_date"`
	UniqueCode  string     `gorm:"size:50;not null;unique;index" json:"unique_code"`
	Signature   string     `gorm:"size:64;unique;index" json:"signature"`
	Status      string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	FileURL     *string    `gorm:"type:text" json:"file_url,omitempty"`

	Student   Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course    Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedBy *User   `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
