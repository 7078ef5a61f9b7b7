package models

import (
	"github.com/lib/pq"
)

type Doctor struct {
	BaseModel
	UserID          string  `gorm:"type:uuid;not null;uniqueIndex"`
	HospitalID      *string `gorm:"type:uuid;index"`
	DepartmentID    *string `gorm:"type:uuid;index"`
	Specialization  string  `gorm:"index"`
	Experience      string  // free text, e.g. "7 years" or "10+ ans"
	ConsultationFee float64
	Languages       pq.StringArray `gorm:"type:text[]"`
	IsVerified      bool           `gorm:"default:false;index"`
	Status          DoctorStatus   `gorm:"type:varchar(20);default:'PENDING'"`

	// Relations
	User       *User       `gorm:"foreignKey:UserID"`
	Hospital   *Hospital   `gorm:"foreignKey:HospitalID"`
	Department *Department `gorm:"foreignKey:DepartmentID"`
	Reviews    []Review    `gorm:"foreignKey:DoctorID"`
}
