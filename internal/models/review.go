package models

type Review struct {
	BaseModel
	Rating     int `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string
	DoctorID   *string `gorm:"type:uuid;index"`
	HospitalID *string `gorm:"type:uuid;index"`
	PatientID  *string `gorm:"type:uuid;index"`
}

// MaxRating is the top of the review scale.
const MaxRating = 5
