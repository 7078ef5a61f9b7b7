package models

import (
	"gorm.io/datatypes"
)

type Hospital struct {
	BaseModel
	Name        string `gorm:"not null"`
	Description string
	Address     string
	City        string `gorm:"index"`
	ImageURL    string
	IsVerified  bool `gorm:"default:false;index"`
	// Services lists offered care, e.g. "Emergency" or "Maternity".
	Services    datatypes.JSONSlice[string] `gorm:"type:jsonb;default:'[]'"`

	// Relations
	Doctors     []Doctor     `gorm:"foreignKey:HospitalID"`
	Departments []Department `gorm:"foreignKey:HospitalID"`
	Reviews     []Review     `gorm:"foreignKey:HospitalID"`
}
