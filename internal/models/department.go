package models

type Department struct {
	BaseModel
	Name        string `gorm:"not null"`
	Description string
	HospitalID  string `gorm:"type:uuid;not null;index"`

	// Relations
	Hospital *Hospital `gorm:"foreignKey:HospitalID"`
	Doctors  []Doctor  `gorm:"foreignKey:DepartmentID"`
}
