package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudentID   string     `gorm:"size:50;not null;unique;index" json:"student_id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	LastName    string     `gorm:"size:100;not null" json:"last_name"`
	Email       *string    `gorm:"size:255;index" json:"email"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`

	Certificates []Certificate `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
