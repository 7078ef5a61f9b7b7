package models

// Profile holds the personal details shown next to a user in the directory.
type Profile struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;uniqueIndex"`
	City     string `gorm:"index"`
	Gender   Gender `gorm:"type:varchar(10)"`
	Phone    string
	ImageURL string
}
