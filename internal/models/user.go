package models

// User is a staff account. Athletes are not users; they are managed
// records and never log in themselves.
type User struct {
	BaseModel
	FullName     string   `gorm:"not null" json:"full_name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"not null;default:'FRONT_DESK'" json:"role"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`
}
