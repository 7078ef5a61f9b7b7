package models

type User struct {
	BaseModel
	Name     string   `gorm:"not null"`
	Email    string   `gorm:"uniqueIndex;not null"`
	Role     UserRole `gorm:"type:varchar(20);not null"`
	IsActive bool     `gorm:"default:true"`

	// Relations
	Profile *Profile `gorm:"foreignKey:UserID"`
	Doctor  *Doctor  `gorm:"foreignKey:UserID"`
}
